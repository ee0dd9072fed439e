package domain

import (
	"fmt"
	"strings"
)

// VideoType selects which stem-like variant of a song to look for.
type VideoType string

const (
	VideoInstrumental VideoType = "instrumental"
	VideoAcapella     VideoType = "acapella"
)

// ParseVideoType accepts the two supported type tags, case-insensitively.
func ParseVideoType(raw string) (VideoType, bool) {
	switch VideoType(strings.ToLower(strings.TrimSpace(raw))) {
	case VideoInstrumental:
		return VideoInstrumental, true
	case VideoAcapella:
		return VideoAcapella, true
	}
	return "", false
}

// MaxVideos caps a video lookup.
const MaxVideos = 5

// Video describes one video search result.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Duration     string `json:"duration"` // m:ss or h:mm:ss
	ThumbnailURL string `json:"thumbnailUrl"`
}

// FormatDuration renders seconds as m:ss, or h:mm:ss from one hour up.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// MockVideoPrefix starts every placeholder video id so clients can tell them apart.
const MockVideoPrefix = "mock"

var mockDurations = [...]string{"3:30", "4:05", "2:58"}

// MockVideos returns three placeholder descriptors for when live video search is
// unavailable. Ids are mock-<type>-1 to mock-<type>-3.
func MockVideos(query string, kind VideoType) []Video {
	label := strings.TrimSpace(query)
	if label == "" {
		label = "Unknown song"
	}

	videos := make([]Video, len(mockDurations))
	for i, d := range mockDurations {
		videos[i] = Video{
			ID:       fmt.Sprintf("%s-%s-%d", MockVideoPrefix, kind, i+1),
			Title:    fmt.Sprintf("%s (%s) - placeholder %d", label, kind, i+1),
			Duration: d,
		}
	}
	return videos
}

// IsMockVideo reports whether id belongs to a placeholder video.
func IsMockVideo(id string) bool {
	return strings.HasPrefix(id, MockVideoPrefix+"-")
}
