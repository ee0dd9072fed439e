package domain

import "sort"

// MaxResults caps every ranked result set.
const MaxResults = 25

// RankOptions controls Rank.
type RankOptions struct {
	TargetBPM int
	TargetKey string
	ExcludeID string
	// StrictKey drops tracks whose key is not compatible with TargetKey.
	// When false, the key is advisory and only the tempo filters.
	StrictKey bool
	// Limit defaults to MaxResults and is never allowed above it.
	Limit int
}

// Rank filters candidates by tempo compatibility and orders them closest first,
// preferring real tempo data over estimates on ties. The input is left untouched.
func Rank(candidates []Track, opts RankOptions) []Track {
	limit := opts.Limit
	if limit <= 0 || limit > MaxResults {
		limit = MaxResults
	}

	matches := make([]TempoMatch, 0, len(candidates))
	for _, t := range candidates {
		if opts.ExcludeID != "" && t.ID == opts.ExcludeID {
			continue
		}
		ok, distance := MatchTempo(t.BPM, opts.TargetBPM)
		if !ok {
			continue
		}
		if opts.StrictKey && opts.TargetKey != "" && !KeysCompatible(opts.TargetKey, t.Key) {
			continue
		}
		matches = append(matches, TempoMatch{
			Track:            t,
			IsMatch:          true,
			Distance:         distance,
			HasMeasuredTempo: t.HasMeasuredTempo(),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].HasMeasuredTempo && !matches[j].HasMeasuredTempo
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Track, len(matches))
	for i, m := range matches {
		out[i] = m.Track
	}
	return out
}
