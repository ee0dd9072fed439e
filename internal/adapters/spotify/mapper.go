package spotify

import (
	"math"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/mashup/internal/core/domain"
)

// mapTrackToDomain converts a raw Spotify track to a domain track.
// features can be nil when the track has no analysis; the tempo and key are then estimated.
func mapTrackToDomain(st spotifyTrack, features *spotifyAudioFeatures) domain.Track {
	coverURL := ""
	if len(st.Album.Images) > 0 {
		coverURL = st.Album.Images[0].URL
	}

	dt := domain.Track{
		ID:          st.ID,
		Title:       st.Name,
		Artist:      joinArtistNames(st),
		Album:       st.Album.Name,
		Duration:    int(math.Round(float64(st.DurationMs) / 1000)),
		CoverURL:    coverURL,
		ReleaseYear: releaseYear(st.Album.ReleaseDate),
	}

	if features == nil || features.Tempo <= 0 {
		return domain.Estimated(dt)
	}
	return dt.WithFeatures(
		int(math.Round(features.Tempo)),
		domain.KeyName(features.Key, features.Mode),
		domain.SourceMeasured,
	)
}

func joinArtistNames(st spotifyTrack) string {
	names := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func firstArtist(st spotifyTrack) string {
	if len(st.Artists) == 0 {
		return ""
	}
	return st.Artists[0].Name
}

// releaseYear reads the year from "2020", "2020-03" or "2020-03-27".
func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
