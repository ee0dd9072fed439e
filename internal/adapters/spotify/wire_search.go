package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/mashup/internal/core/domain"
)

// Search looks up tracks by free text and returns them with tempo and key attached.
// Non-music content is dropped; track length is not checked.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Track{}, nil
	}

	items, err := c.searchTracks(ctx, query, searchPageLimit)
	if err != nil {
		return nil, err
	}

	kept := make([]spotifyTrack, 0, len(items))
	for _, st := range items {
		if st.ID == "" || !isMusic(st) {
			continue
		}
		kept = append(kept, st)
	}

	return c.enrich(ctx, kept)
}

func (c *Client) searchTracks(ctx context.Context, query string, limit int) ([]spotifyTrack, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))
	if c.market != "" {
		params.Set("market", c.market)
	}

	var body searchResponse
	if err := c.getJSON(ctx, "/search", params, &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: search %q: %w", query, err)
	}
	return body.Tracks.Items, nil
}
