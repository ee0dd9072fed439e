package ports

import (
	"context"
	"strings"

	"github.com/ewilliams-labs/mashup/internal/core/domain"
)

// MetadataProvider is a live music catalog.
type MetadataProvider interface {
	Search(ctx context.Context, query string) ([]domain.Track, error)
	FetchByTempoAndKey(ctx context.Context, q domain.CompatibilityQuery) ([]domain.Track, error)
}

// Catalog is the static fallback data set.
type Catalog interface {
	Search(ctx context.Context, query string) ([]domain.Track, error)
	All(ctx context.Context) ([]domain.Track, error)
}

// VideoProvider looks up videos for a song.
type VideoProvider interface {
	SearchVideos(ctx context.Context, query string, kind domain.VideoType) ([]domain.Video, error)
}

// VideoCache memoizes live video lookups.
type VideoCache interface {
	Get(key VideoKey) ([]domain.Video, bool)
	Add(key VideoKey, videos []domain.Video)
}

// VideoKey identifies one cached video lookup.
type VideoKey struct {
	Title  string
	Artist string
	Type   domain.VideoType
}

// Query is the free text sent to the video provider, without the type tag.
func (k VideoKey) Query() string {
	return strings.TrimSpace(strings.TrimSpace(k.Title) + " " + strings.TrimSpace(k.Artist))
}

// Prefetcher warms the video cache in the background.
type Prefetcher interface {
	Submit(track domain.Track)
}
