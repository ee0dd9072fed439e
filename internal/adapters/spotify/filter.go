package spotify

import "strings"

const (
	minTrackSeconds = 90
	maxTrackSeconds = 480
)

// contentDenylist marks catalog entries that are not songs anyone would mix.
var contentDenylist = []string{
	"karaoke",
	"ringtone",
	"podcast",
	"meditation",
	"sound effect",
	"white noise",
	"audiobook",
	"workout mix",
	"interview",
	"asmr",
	"sleep sounds",
	"8d audio",
	"nightcore",
	"in the style of",
	"tribute",
}

// isMusic rejects denylisted non-music content.
func isMusic(st spotifyTrack) bool {
	haystack := strings.ToLower(st.Name + "\n" + st.Album.Name + "\n" + joinArtistNames(st))
	for _, marker := range contentDenylist {
		if strings.Contains(haystack, marker) {
			return false
		}
	}
	return true
}

// isMixableTrack is isMusic plus the song-length window, for compatibility candidates.
func isMixableTrack(st spotifyTrack) bool {
	seconds := (st.DurationMs + 500) / 1000
	if seconds < minTrackSeconds || seconds > maxTrackSeconds {
		return false
	}
	return isMusic(st)
}
