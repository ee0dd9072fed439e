package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ewilliams-labs/mashup/internal/core/domain"
	"github.com/ewilliams-labs/mashup/internal/core/ports"
	"github.com/ewilliams-labs/mashup/internal/metrics"
)

// ResultSource tells the caller whether results came from a live provider.
type ResultSource string

const (
	SourceLive     ResultSource = "live"
	SourceFallback ResultSource = "fallback"
	SourceMock     ResultSource = "mock"
)

// prefetchCount is how many top compatible tracks get their videos warmed.
const prefetchCount = 3

// SearchResult is returned by Search and Compatible.
type SearchResult struct {
	Tracks  []domain.Track
	Source  ResultSource
	Warning string
}

// VideoQuery selects videos either by free text or by title and artist.
type VideoQuery struct {
	Query  string
	Title  string
	Artist string
	Type   domain.VideoType
}

// VideoResult is returned by Videos.
type VideoResult struct {
	Videos  []domain.Video
	Source  ResultSource
	Warning string
}

// Discovery answers track searches, compatibility lookups and video lookups.
// Provider failures never reach the caller: they degrade to the sample catalog
// or placeholder videos. Only invalid input is returned as an error.
type Discovery struct {
	provider ports.MetadataProvider
	catalog  ports.Catalog
	videos   ports.VideoProvider
	cache    ports.VideoCache
	prefetch ports.Prefetcher
	metrics  *metrics.Metrics
}

// Option configures a Discovery.
type Option func(*Discovery)

// WithMetadataProvider enables live track data. Leave it out when credentials are missing.
func WithMetadataProvider(p ports.MetadataProvider) Option {
	return func(d *Discovery) { d.provider = p }
}

// WithVideoProvider enables live video lookups.
func WithVideoProvider(v ports.VideoProvider) Option {
	return func(d *Discovery) { d.videos = v }
}

func WithVideoCache(c ports.VideoCache) Option {
	return func(d *Discovery) { d.cache = c }
}

func WithPrefetcher(p ports.Prefetcher) Option {
	return func(d *Discovery) { d.prefetch = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Discovery) { d.metrics = m }
}

// NewDiscovery constructs a Discovery backed by catalog.
func NewDiscovery(catalog ports.Catalog, opts ...Option) *Discovery {
	d := &Discovery{catalog: catalog}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Search finds tracks by free text.
func (d *Discovery) Search(ctx context.Context, query string) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{}, ports.InvalidRequestError{Field: "q", Reason: "must not be empty"}
	}

	if d.provider != nil {
		tracks, err := d.provider.Search(ctx, query)
		if err == nil {
			return SearchResult{Tracks: tracks, Source: SourceLive}, nil
		}
		return d.fallbackSearch(ctx, "search", query, err), nil
	}
	return d.fallbackSearch(ctx, "search", query, ports.ErrConfigurationMissing), nil
}

// Compatible finds tracks whose tempo mixes with q.BPM, closest first.
func (d *Discovery) Compatible(ctx context.Context, q domain.CompatibilityQuery) (SearchResult, error) {
	if q.BPM <= 0 || q.BPM > domain.MaxTempo {
		return SearchResult{}, ports.InvalidRequestError{Field: "bpm", Reason: fmt.Sprintf("must be between 1 and %d", domain.MaxTempo)}
	}
	if q.Key != "" {
		q.Key = domain.NormalizeKey(q.Key)
	}

	opts := domain.RankOptions{
		TargetBPM: q.BPM,
		TargetKey: q.Key,
		ExcludeID: q.ExcludeID,
		StrictKey: q.StrictKey,
	}

	cause := ports.ErrConfigurationMissing
	if d.provider != nil {
		candidates, err := d.provider.FetchByTempoAndKey(ctx, q)
		if err == nil {
			ranked := domain.Rank(candidates, opts)
			d.submitPrefetch(ranked)
			return SearchResult{Tracks: ranked, Source: SourceLive}, nil
		}
		cause = err
	}

	reason := fallbackReason(cause)
	d.logFallback("compatible", reason, cause)
	d.metrics.Fallback("compatible", reason)

	all, err := d.catalog.All(ctx)
	if err != nil {
		slog.Error("service: sample catalog unavailable", "error", err)
		return SearchResult{Tracks: []domain.Track{}, Source: SourceFallback, Warning: warningFor(cause)}, nil
	}
	return SearchResult{Tracks: domain.Rank(all, opts), Source: SourceFallback, Warning: warningFor(cause)}, nil
}

// Videos finds instrumental or acapella videos for a song.
func (d *Discovery) Videos(ctx context.Context, vq VideoQuery) (VideoResult, error) {
	kind, ok := domain.ParseVideoType(string(vq.Type))
	if !ok {
		return VideoResult{}, ports.InvalidRequestError{Field: "type", Reason: "must be instrumental or acapella"}
	}

	key := ports.VideoKey{Title: vq.Title, Artist: vq.Artist, Type: kind}
	if q := strings.TrimSpace(vq.Query); q != "" {
		key = ports.VideoKey{Title: q, Type: kind}
	}
	query := key.Query()
	if query == "" {
		return VideoResult{}, ports.InvalidRequestError{Field: "q", Reason: "a query or a title is required"}
	}

	if d.videos == nil {
		d.metrics.Fallback("videos", fallbackReason(ports.ErrConfigurationMissing))
		return VideoResult{Videos: domain.MockVideos(query, kind), Source: SourceMock}, nil
	}

	if d.cache != nil {
		cached, hit := d.cache.Get(key)
		d.metrics.VideoCacheLookup(hit)
		if hit {
			return VideoResult{Videos: cached, Source: SourceLive}, nil
		}
	}

	videos, err := d.videos.SearchVideos(ctx, query, kind)
	if err != nil {
		reason := fallbackReason(err)
		d.logFallback("videos", reason, err)
		d.metrics.Fallback("videos", reason)
		return VideoResult{Videos: domain.MockVideos(query, kind), Source: SourceMock, Warning: warningFor(err)}, nil
	}

	if len(videos) > domain.MaxVideos {
		videos = videos[:domain.MaxVideos]
	}
	if d.cache != nil {
		d.cache.Add(key, videos)
	}
	return VideoResult{Videos: videos, Source: SourceLive}, nil
}

func (d *Discovery) fallbackSearch(ctx context.Context, operation, query string, cause error) SearchResult {
	reason := fallbackReason(cause)
	d.logFallback(operation, reason, cause)
	d.metrics.Fallback(operation, reason)

	tracks, err := d.catalog.Search(ctx, query)
	if err != nil {
		slog.Error("service: sample catalog unavailable", "error", err)
		tracks = []domain.Track{}
	}
	return SearchResult{Tracks: tracks, Source: SourceFallback, Warning: warningFor(cause)}
}

func (d *Discovery) submitPrefetch(tracks []domain.Track) {
	if d.prefetch == nil {
		return
	}
	for i, t := range tracks {
		if i == prefetchCount {
			break
		}
		d.prefetch.Submit(t)
	}
}

func (d *Discovery) logFallback(operation, reason string, err error) {
	if reason == "unconfigured" {
		slog.Debug("service: provider not configured, serving fallback", "operation", operation)
		return
	}
	slog.Warn("service: provider failed, serving fallback", "operation", operation, "reason", reason, "error", err)
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, ports.ErrConfigurationMissing):
		return "unconfigured"
	case errors.Is(err, ports.ErrProviderUnauthorized):
		return "unauthorized"
	case errors.Is(err, ports.ErrProviderRateLimited):
		return "rate_limited"
	default:
		return "unreachable"
	}
}

// warningFor returns the soft warning shown to callers. Only rate limiting is
// surfaced; every other failure is silent apart from the data source.
func warningFor(err error) string {
	if !errors.Is(err, ports.ErrProviderRateLimited) {
		return ""
	}
	var provErr *ports.ProviderError
	if errors.As(err, &provErr) && provErr.RetryAfter > 0 {
		return "provider rate limited, showing fallback results; retry after " + provErr.RetryAfter.String()
	}
	return "provider rate limited, showing fallback results"
}
