package domain

// TempoTolerance is the largest BPM gap still considered a near match.
const TempoTolerance = 5

// MaxTempo bounds the target tempos accepted from callers.
const MaxTempo = 1000

// TempoMatch is the outcome of comparing one candidate against a target tempo.
type TempoMatch struct {
	Track            Track
	IsMatch          bool
	Distance         int
	HasMeasuredTempo bool
}

// MatchTempo reports whether candidate mixes with target and how far apart they are.
// Rules are checked in order: exact, double/half time, near (±5), near double time,
// near half time. A non-positive candidate never matches, nor does any
// candidate against a target outside (0, MaxTempo].
func MatchTempo(candidate, target int) (bool, int) {
	if candidate <= 0 || target <= 0 || target > MaxTempo {
		return false, 0
	}

	double := target * 2
	half := halfTempo(target)

	if candidate == target {
		return true, 0
	}
	if candidate == double || candidate == half {
		return true, 0
	}
	if d := absInt(candidate - target); d <= TempoTolerance {
		return true, d
	}
	if d := absInt(candidate - double); d <= TempoTolerance {
		return true, d
	}
	if d := absInt(candidate - half); d <= TempoTolerance {
		return true, d
	}

	return false, 0
}

// halfTempo rounds target/2 half up, so 121 halves to 61.
func halfTempo(target int) int {
	return (target + 1) / 2
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
