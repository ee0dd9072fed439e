package domain

const (
	minEstimatedBPM  = 60
	estimatedBPMSpan = 121 // 60..180 inclusive
)

// EstimationKeys is the fixed order used to pick an estimated key.
var EstimationKeys = func() []string {
	keys := make([]string, 0, 2*len(PitchClasses))
	for _, p := range PitchClasses {
		keys = append(keys, p+" major")
	}
	for _, p := range PitchClasses {
		keys = append(keys, p+" minor")
	}
	return keys
}()

// EstimateFeatures derives a stable pseudo tempo and key from a title and artist.
// The hash is the sum of the code points of title+artist, so the same pair always
// yields the same values. It is a placeholder for missing data, not an analysis.
func EstimateFeatures(title, artist string) (bpm int, key string) {
	hash := 0
	for _, r := range title + artist {
		hash += int(r)
	}
	bpm = minEstimatedBPM + hash%estimatedBPMSpan
	key = EstimationKeys[hash%len(EstimationKeys)]
	return bpm, key
}

// Estimated returns a copy of t with estimated tempo and key.
func Estimated(t Track) Track {
	bpm, key := EstimateFeatures(t.Title, t.Artist)
	return t.WithFeatures(bpm, key, SourceEstimated)
}
