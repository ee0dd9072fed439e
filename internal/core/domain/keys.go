package domain

import "strings"

// PitchClasses maps a provider pitch-class integer (0 = C) to its note name.
var PitchClasses = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// keyTable lists, for every canonical key, the keys that mix well with it:
// itself, its relative, dominant, subdominant and parallel.
var keyTable = map[string][]string{
	"C major":  {"C major", "A minor", "G major", "F major", "C minor"},
	"C# major": {"C# major", "A# minor", "G# major", "F# major", "C# minor"},
	"D major":  {"D major", "B minor", "A major", "G major", "D minor"},
	"D# major": {"D# major", "C minor", "A# major", "G# major", "D# minor"},
	"E major":  {"E major", "C# minor", "B major", "A major", "E minor"},
	"F major":  {"F major", "D minor", "C major", "A# major", "F minor"},
	"F# major": {"F# major", "D# minor", "C# major", "B major", "F# minor"},
	"G major":  {"G major", "E minor", "D major", "C major", "G minor"},
	"G# major": {"G# major", "F minor", "D# major", "C# major", "G# minor"},
	"A major":  {"A major", "F# minor", "E major", "D major", "A minor"},
	"A# major": {"A# major", "G minor", "F major", "D# major", "A# minor"},
	"B major":  {"B major", "G# minor", "F# major", "E major", "B minor"},

	"C minor":  {"C minor", "D# major", "G minor", "F minor", "C major"},
	"C# minor": {"C# minor", "E major", "G# minor", "F# minor", "C# major"},
	"D minor":  {"D minor", "F major", "A minor", "G minor", "D major"},
	"D# minor": {"D# minor", "F# major", "A# minor", "G# minor", "D# major"},
	"E minor":  {"E minor", "G major", "B minor", "A minor", "E major"},
	"F minor":  {"F minor", "G# major", "C minor", "A# minor", "F major"},
	"F# minor": {"F# minor", "A major", "C# minor", "B minor", "F# major"},
	"G minor":  {"G minor", "A# major", "D minor", "C minor", "G major"},
	"G# minor": {"G# minor", "B major", "D# minor", "C# minor", "G# major"},
	"A minor":  {"A minor", "C major", "E minor", "D minor", "A major"},
	"A# minor": {"A# minor", "C# major", "F minor", "D# minor", "A# major"},
	"B minor":  {"B minor", "D major", "F# minor", "E minor", "B major"},
}

// flatToSharp covers the enharmonic spellings providers and users send.
var flatToSharp = map[string]string{
	"Db": "C#", "Eb": "D#", "Gb": "F#", "Ab": "G#", "Bb": "A#",
	"Cb": "B", "Fb": "E", "E#": "F", "B#": "C",
}

// CompatibleKeys returns the keys that mix well with key, in table order.
// A key missing from the table is only compatible with itself.
func CompatibleKeys(key string) []string {
	row, ok := keyTable[key]
	if !ok {
		return []string{key}
	}
	out := make([]string, len(row))
	copy(out, row)
	return out
}

// KeysCompatible reports whether b appears in the compatibility row of a.
func KeysCompatible(a, b string) bool {
	for _, k := range CompatibleKeys(a) {
		if k == b {
			return true
		}
	}
	return false
}

// IsCanonicalKey reports whether key is one of the 24 table keys.
func IsCanonicalKey(key string) bool {
	_, ok := keyTable[key]
	return ok
}

// KeyName builds a canonical key name from a pitch class (0-11) and a mode
// (1 = major, 0 = minor). Out-of-range pitches yield UnknownKey.
func KeyName(pitch int, mode int) string {
	if pitch < 0 || pitch >= len(PitchClasses) {
		return UnknownKey
	}
	if mode == 1 {
		return PitchClasses[pitch] + " major"
	}
	return PitchClasses[pitch] + " minor"
}

// NormalizeKey rewrites loose spellings ("db minor", "Bb Major", "F#m") into the
// canonical sharp form. Input it cannot parse is returned trimmed but otherwise untouched.
func NormalizeKey(raw string) string {
	trimmed := strings.TrimSpace(raw)
	fields := strings.Fields(trimmed)

	var note, mode string
	switch len(fields) {
	case 1:
		f := fields[0]
		if strings.HasSuffix(f, "m") && len(f) > 1 {
			note, mode = f[:len(f)-1], "minor"
		} else {
			note, mode = f, "major"
		}
	case 2:
		note, mode = fields[0], strings.ToLower(fields[1])
	default:
		return trimmed
	}

	switch mode {
	case "major", "maj":
		mode = "major"
	case "minor", "min":
		mode = "minor"
	default:
		return trimmed
	}

	note = strings.ToUpper(note[:1]) + strings.ToLower(note[1:])
	if sharp, ok := flatToSharp[note]; ok {
		note = sharp
	}

	candidate := note + " " + mode
	if !IsCanonicalKey(candidate) {
		return trimmed
	}
	return candidate
}
