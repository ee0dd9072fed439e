package spotify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ewilliams-labs/mashup/internal/core/domain"
	"github.com/ewilliams-labs/mashup/internal/core/ports"
)

// enrich maps tracks to domain tracks, attaching measured tempo and key where
// /audio-features has them and estimates everywhere else. Only errors that mean
// the whole provider is unusable (rate limiting, cancellation) are returned.
func (c *Client) enrich(ctx context.Context, tracks []spotifyTrack) ([]domain.Track, error) {
	features := make(map[string]*spotifyAudioFeatures, len(tracks))
	for start := 0; start < len(tracks); start += featureBatchSize {
		end := min(start+featureBatchSize, len(tracks))
		batch, err := c.fetchFeatures(ctx, tracks[start:end])
		if err != nil {
			return nil, err
		}
		for id, f := range batch {
			features[id] = f
		}
	}

	out := make([]domain.Track, 0, len(tracks))
	for _, st := range tracks {
		out = append(out, mapTrackToDomain(st, features[st.ID]))
	}
	return out, nil
}

// fetchFeatures loads one batch of at most featureBatchSize ids. The endpoint is
// restricted for many applications, so 403/404 and garbled answers degrade to
// an empty result instead of failing the search.
func (c *Client) fetchFeatures(ctx context.Context, tracks []spotifyTrack) (map[string]*spotifyAudioFeatures, error) {
	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		ids = append(ids, t.ID)
	}

	var body audioFeaturesResponse
	err := c.getJSON(ctx, "/audio-features", url.Values{"ids": {strings.Join(ids, ",")}}, &body)
	if err != nil {
		if errors.Is(err, ports.ErrProviderRateLimited) || ctx.Err() != nil {
			return nil, err
		}
		var provErr *ports.ProviderError
		if errors.As(err, &provErr) && provErr.StatusCode != http.StatusForbidden && provErr.StatusCode != http.StatusNotFound {
			slog.Warn("spotify adapter: audio features unavailable, estimating", "tracks", len(ids), "error", err)
		} else {
			slog.Debug("spotify adapter: audio features unavailable, estimating", "tracks", len(ids), "error", err)
		}
		return map[string]*spotifyAudioFeatures{}, nil
	}

	out := make(map[string]*spotifyAudioFeatures, len(body.AudioFeatures))
	for _, f := range body.AudioFeatures {
		if f == nil || f.ID == "" {
			continue
		}
		out[f.ID] = f
	}
	return out, nil
}
