package domain

// DataSource records where a track's tempo and key came from.
type DataSource string

const (
	SourceMeasured  DataSource = "measured"  // provider audio features
	SourceEstimated DataSource = "estimated" // deterministic title/artist hash
	SourceFallback  DataSource = "fallback"  // curated sample catalog
)

// UnknownKey is used when a track's key could not be determined.
const UnknownKey = "Unknown"

// Track represents a musical track in the domain layer.
// A BPM of 0 means the tempo is unknown.
type Track struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Artist      string     `json:"artist"`
	Album       string     `json:"album,omitempty"`
	BPM         int        `json:"bpm,omitempty"`
	Key         string     `json:"key"`
	Duration    int        `json:"duration"` // seconds
	VideoID     string     `json:"videoId,omitempty"`
	CoverURL    string     `json:"coverUrl,omitempty"`
	ReleaseYear int        `json:"releaseYear,omitempty"`
	Source      DataSource `json:"dataSource"`
}

// HasMeasuredTempo reports whether the tempo came from real data rather than an estimate.
func (t Track) HasMeasuredTempo() bool {
	return t.BPM > 0 && t.Source != SourceEstimated
}

// WithFeatures returns a copy of t carrying the given tempo, key and source.
func (t Track) WithFeatures(bpm int, key string, source DataSource) Track {
	t.BPM = bpm
	t.Key = key
	t.Source = source
	return t
}

// CompatibilityQuery describes a request for tracks that mix well with a target.
type CompatibilityQuery struct {
	BPM       int
	Key       string
	ExcludeID string
	Genre     string
	Search    string
	StrictKey bool
}
