// Package youtube adapts the YouTube Data API to the video provider port.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/ewilliams-labs/mashup/internal/core/domain"
	"github.com/ewilliams-labs/mashup/internal/core/ports"
	"github.com/ewilliams-labs/mashup/internal/metrics"
)

const (
	providerName   = "youtube"
	defaultTimeout = 8 * time.Second
)

// Client looks up videos through search.list and videos.list.
type Client struct {
	service *yt.Service
	timeout time.Duration
	metrics *metrics.Metrics
}

var _ ports.VideoProvider = (*Client)(nil)

// Options configures NewClient.
type Options struct {
	APIKey  string
	BaseURL string // overrides the API endpoint, used by tests
	Timeout time.Duration
	Metrics *metrics.Metrics
}

// NewClient returns ports.ErrConfigurationMissing when no API key is set.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, &ports.ProviderError{Provider: providerName, Kind: ports.ErrConfigurationMissing}
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(strings.TrimRight(opts.BaseURL, "/")+"/"))
	}

	service, err := yt.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("youtube adapter: create service: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{service: service, timeout: timeout, metrics: opts.Metrics}, nil
}

// SearchVideos finds up to domain.MaxVideos videos for "<query> <kind>".
func (c *Client) SearchVideos(ctx context.Context, query string, kind domain.VideoType) ([]domain.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	search, err := c.service.Search.List([]string{"snippet"}).
		Q(strings.TrimSpace(query + " " + string(kind))).
		Type("video").
		MaxResults(domain.MaxVideos).
		Context(ctx).
		Do()
	if err != nil {
		return nil, c.fail("search", err)
	}
	c.metrics.ProviderRequest(providerName, "ok")

	videos := make([]domain.Video, 0, len(search.Items))
	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		videos = append(videos, domain.Video{
			ID:           item.Id.VideoId,
			Title:        item.Snippet.Title,
			ThumbnailURL: thumbnailURL(item.Snippet.Thumbnails),
		})
		ids = append(ids, item.Id.VideoId)
	}
	if len(videos) == 0 {
		return videos, nil
	}

	details, err := c.service.Videos.List([]string{"contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		// titles are still useful without durations
		slog.Warn("youtube adapter: durations unavailable", "error", err)
		c.metrics.ProviderRequest(providerName, outcomeOf(classify(err)))
		for i := range videos {
			videos[i].Duration = domain.FormatDuration(0)
		}
		return videos, nil
	}
	c.metrics.ProviderRequest(providerName, "ok")

	durations := make(map[string]int, len(details.Items))
	for _, v := range details.Items {
		if v.ContentDetails == nil {
			continue
		}
		seconds, err := ParseISODuration(v.ContentDetails.Duration)
		if err != nil {
			slog.Debug("youtube adapter: bad duration", "id", v.Id, "duration", v.ContentDetails.Duration)
			continue
		}
		durations[v.Id] = seconds
	}
	for i := range videos {
		videos[i].Duration = domain.FormatDuration(durations[videos[i].ID])
	}

	return videos, nil
}

func (c *Client) fail(call string, err error) error {
	classified := classify(err)
	c.metrics.ProviderRequest(providerName, outcomeOf(classified))
	return fmt.Errorf("youtube adapter: %s: %w", call, classified)
}

// classify maps API errors onto the provider error classes. Quota exhaustion is
// reported as 403 with a reason, not as 429.
func classify(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return &ports.ProviderError{Provider: providerName, Kind: ports.ErrProviderUnreachable, Err: err}
	}

	provErr := &ports.ProviderError{Provider: providerName, StatusCode: apiErr.Code, Err: err}
	switch {
	case apiErr.Code == http.StatusTooManyRequests || hasReason(apiErr, "quotaExceeded", "rateLimitExceeded", "dailyLimitExceeded", "userRateLimitExceeded"):
		provErr.Kind = ports.ErrProviderRateLimited
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden || hasReason(apiErr, "keyInvalid"):
		provErr.Kind = ports.ErrProviderUnauthorized
	default:
		provErr.Kind = ports.ErrProviderUnreachable
	}
	return provErr
}

func hasReason(apiErr *googleapi.Error, reasons ...string) bool {
	for _, item := range apiErr.Errors {
		for _, r := range reasons {
			if item.Reason == r {
				return true
			}
		}
	}
	return false
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ports.ErrProviderRateLimited):
		return "rate_limited"
	case errors.Is(err, ports.ErrProviderUnauthorized):
		return "unauthorized"
	default:
		return "unreachable"
	}
}

func thumbnailURL(t *yt.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*yt.Thumbnail{t.Medium, t.High, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}
