package spotify

// spotifyTrack is the track object returned by /search.
type spotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	DurationMs int             `json:"duration_ms"`
	Artists    []spotifyArtist `json:"artists"`
	Album      spotifyAlbum    `json:"album"`
}

type spotifyArtist struct {
	Name string `json:"name"`
}

type spotifyAlbum struct {
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []spotifyImage `json:"images"`
}

type spotifyImage struct {
	URL string `json:"url"`
}

// searchResponse is the /search envelope for type=track.
type searchResponse struct {
	Tracks struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
}

// spotifyAudioFeatures is one entry of /audio-features. Key is a pitch class
// (-1 when undetected) and Mode is 1 for major, 0 for minor.
type spotifyAudioFeatures struct {
	ID    string  `json:"id"`
	Tempo float64 `json:"tempo"`
	Key   int     `json:"key"`
	Mode  int     `json:"mode"`
}

// audioFeaturesResponse entries are null for ids without analysis.
type audioFeaturesResponse struct {
	AudioFeatures []*spotifyAudioFeatures `json:"audio_features"`
}
