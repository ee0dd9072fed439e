package spotify

import (
	"fmt"
	"strings"
	"time"

	"github.com/ewilliams-labs/mashup/internal/core/domain"
)

const (
	maxPlanQueries   = 8
	planSearchLimit  = 50
	recentYears      = 4
	olderYearsFrom   = 14
	olderYearsTo     = 5
	searchPageLimit  = 20
	featureBatchSize = 100
)

// defaultGenres seed the plan when the caller names no genre.
var defaultGenres = []string{"pop", "dance", "hip-hop", "house"}

// releaseWindow limits a search to a year range; the zero value is unrestricted.
type releaseWindow struct {
	from, to int
}

func (w releaseWindow) filter() string {
	if w.from == 0 && w.to == 0 {
		return ""
	}
	return fmt.Sprintf("year:%d-%d", w.from, w.to)
}

// buildQueries expands a compatibility query into Spotify search strings:
// every release window times every genre times every free-text term, in that
// nesting order, deduplicated and capped at maxPlanQueries.
func buildQueries(q domain.CompatibilityQuery, now time.Time) []string {
	terms := []string{""}
	if strings.TrimSpace(q.Search) != "" {
		terms = terms[:0]
		for _, part := range strings.Split(q.Search, ",") {
			if term := strings.TrimSpace(part); term != "" {
				terms = append(terms, term)
			}
		}
	}

	genres := defaultGenres
	if g := strings.TrimSpace(q.Genre); g != "" {
		genres = []string{g}
	}

	year := now.Year()
	windows := []releaseWindow{
		{from: year - recentYears, to: year},
		{from: year - olderYearsFrom, to: year - olderYearsTo},
		{},
	}

	seen := make(map[string]struct{})
	queries := make([]string, 0, maxPlanQueries)
	for _, w := range windows {
		for _, g := range genres {
			for _, term := range terms {
				query := joinNonEmpty(term, genreFilter(g), w.filter())
				if query == "" {
					continue
				}
				if _, dup := seen[query]; dup {
					continue
				}
				seen[query] = struct{}{}
				queries = append(queries, query)
				if len(queries) == maxPlanQueries {
					return queries
				}
			}
		}
	}
	return queries
}

func genreFilter(genre string) string {
	if genre == "" {
		return ""
	}
	if strings.ContainsAny(genre, " \t") {
		return fmt.Sprintf("genre:%q", genre)
	}
	return "genre:" + genre
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
