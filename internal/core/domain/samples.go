package domain

// sampleTracks is the curated catalog served when live data is unavailable.
var sampleTracks = []Track{
	{ID: "sample-1", Title: "Blinding Lights", Artist: "The Weeknd", BPM: 171, Key: "F minor", Duration: 200, VideoID: "4NRXx6U8ABQ"},
	{ID: "sample-2", Title: "Uptown Funk", Artist: "Mark Ronson, Bruno Mars", BPM: 115, Key: "D minor", Duration: 270, VideoID: "OPf0YbXqDm0"},
	{ID: "sample-3", Title: "Shape of You", Artist: "Ed Sheeran", BPM: 96, Key: "C# minor", Duration: 234, VideoID: "JGwWNGJdvx8"},
	{ID: "sample-4", Title: "Levitating", Artist: "Dua Lipa", BPM: 103, Key: "F# minor", Duration: 203, VideoID: "TUVcZfQe-Kw"},
	{ID: "sample-5", Title: "Get Lucky", Artist: "Daft Punk, Pharrell Williams", BPM: 116, Key: "F# minor", Duration: 248, VideoID: "5NV6Rdv1a3I"},
	{ID: "sample-6", Title: "Billie Jean", Artist: "Michael Jackson", BPM: 117, Key: "F# minor", Duration: 294, VideoID: "Zi_XLOBDo_Y"},
	{ID: "sample-7", Title: "Rolling in the Deep", Artist: "Adele", BPM: 105, Key: "C minor", Duration: 228, VideoID: "rYEDA3JcQqw"},
	{ID: "sample-8", Title: "Don't Start Now", Artist: "Dua Lipa", BPM: 124, Key: "B minor", Duration: 183, VideoID: "oygrmJFKYZY"},
}

// SampleTracks returns a fresh copy of the fallback catalog, tagged SourceFallback.
func SampleTracks() []Track {
	out := make([]Track, len(sampleTracks))
	for i, t := range sampleTracks {
		t.Source = SourceFallback
		out[i] = t
	}
	return out
}
