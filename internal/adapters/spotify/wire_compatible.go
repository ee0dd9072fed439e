package spotify

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ewilliams-labs/mashup/internal/core/domain"
)

const planConcurrency = 4

// FetchByTempoAndKey gathers a candidate pool for a compatibility request.
// Individual plan queries may fail; an error is returned only when all of them do.
// Candidates come back unranked.
func (c *Client) FetchByTempoAndKey(ctx context.Context, q domain.CompatibilityQuery) ([]domain.Track, error) {
	queries := buildQueries(q, c.now())

	results := make([][]spotifyTrack, len(queries))
	var (
		mu       sync.Mutex
		firstErr error
		failed   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(planConcurrency)
	for i, query := range queries {
		g.Go(func() error {
			items, err := c.searchTracks(gctx, query, planSearchLimit)
			if err != nil {
				mu.Lock()
				failed++
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				slog.Warn("spotify adapter: plan query failed", "query", query, "error", err)
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(queries) > 0 && failed == len(queries) {
		return nil, firstErr
	}

	candidates := collectCandidates(results)
	slog.Debug("spotify adapter: candidate pool built",
		"queries", len(queries), "failed", failed, "candidates", len(candidates))

	return c.enrich(ctx, candidates)
}

// collectCandidates flattens plan results in plan order, dropping repeated ids,
// repeated releases of the same song and content that cannot be mixed.
func collectCandidates(results [][]spotifyTrack) []spotifyTrack {
	seenIDs := make(map[string]struct{})
	seenSongs := make(map[string]struct{})

	var out []spotifyTrack
	for _, items := range results {
		for _, st := range items {
			if st.ID == "" {
				continue
			}
			if _, dup := seenIDs[st.ID]; dup {
				continue
			}
			seenIDs[st.ID] = struct{}{}

			if !isMixableTrack(st) {
				continue
			}

			song := songKey(st.Name, firstArtist(st))
			if _, dup := seenSongs[song]; dup {
				continue
			}
			seenSongs[song] = struct{}{}
			out = append(out, st)
		}
	}
	return out
}
