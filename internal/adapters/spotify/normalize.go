package spotify

import (
	"strings"
	"unicode"
)

// releaseWords describe how a recording was packaged. A title decoration made
// only of these (plus years) is the same song: "(2011 Remaster)", "- Radio Edit".
var releaseWords = map[string]bool{
	"album":       true,
	"anniversary": true,
	"bonus":       true,
	"clean":       true,
	"deluxe":      true,
	"edit":        true,
	"edition":     true,
	"expanded":    true,
	"explicit":    true,
	"mono":        true,
	"radio":       true,
	"remaster":    true,
	"remastered":  true,
	"single":      true,
	"stereo":      true,
	"track":       true,
	"version":     true,
}

// creditWords open a decoration that only lists guest artists.
var creditWords = map[string]bool{
	"feat":      true,
	"featuring": true,
	"ft":        true,
	"with":      true,
}

// songKey identifies a song across its releases. Decorations naming different
// material ("Live", "Acoustic", "Remix") stay in the key.
func songKey(title string, artist string) string {
	return canonicalTitle(title) + "|" + foldWords(artist)
}

func canonicalTitle(title string) string {
	base, decorations := splitDecorations(title)

	words := strings.Fields(foldWords(base))
	for i, w := range words {
		// "Song ft. Guest" written without brackets
		if i > 0 && creditWords[w] && w != "with" {
			words = words[:i]
			break
		}
	}

	for _, d := range decorations {
		dw := strings.Fields(foldWords(d))
		if len(dw) == 0 || creditWords[dw[0]] || isReleaseNote(dw) {
			continue
		}
		words = append(words, dw...)
	}
	return strings.Join(words, " ")
}

// splitDecorations separates bracketed segments and " - " suffixes from the
// base title.
func splitDecorations(title string) (string, []string) {
	var (
		base        strings.Builder
		segment     strings.Builder
		decorations []string
		depth       int
	)
	for _, r := range title {
		switch r {
		case '(', '[':
			depth++
			if depth == 1 {
				segment.Reset()
				continue
			}
		case ')', ']':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				decorations = append(decorations, segment.String())
				continue
			}
		}
		if depth > 0 {
			segment.WriteRune(r)
		} else {
			base.WriteRune(r)
		}
	}
	if depth > 0 {
		decorations = append(decorations, segment.String())
	}

	parts := strings.Split(base.String(), " - ")
	return parts[0], append(decorations, parts[1:]...)
}

func isReleaseNote(words []string) bool {
	for _, w := range words {
		if releaseWords[w] || isYear(w) {
			continue
		}
		return false
	}
	return true
}

// foldWords lowercases s and keeps letters and digits, one space between words.
// Apostrophes join: "Don't" folds to "dont".
func foldWords(s string) string {
	var out strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && out.Len() > 0 {
				out.WriteByte(' ')
			}
			out.WriteRune(r)
			space = false
		case r == '\'' || r == '’':
		default:
			space = true
		}
	}
	return out.String()
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
