// Package cache provides the bounded video lookup cache.
package cache

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/ewilliams-labs/mashup/internal/core/domain"
	"github.com/ewilliams-labs/mashup/internal/core/ports"
)

const (
	DefaultCapacity = 512
	DefaultTTL      = 6 * time.Hour
)

// Videos is an LRU with per-entry expiry, keyed by (title, artist, type).
// Keys are case-folded so "Levitating" and "levitating" share an entry.
type Videos struct {
	lru *expirable.LRU[ports.VideoKey, []domain.Video]
}

var _ ports.VideoCache = (*Videos)(nil)

// NewVideos builds a cache holding at most capacity lookups for ttl each.
func NewVideos(capacity int, ttl time.Duration) *Videos {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Videos{lru: expirable.NewLRU[ports.VideoKey, []domain.Video](capacity, nil, ttl)}
}

func (c *Videos) Get(key ports.VideoKey) ([]domain.Video, bool) {
	videos, ok := c.lru.Get(fold(key))
	if !ok {
		return nil, false
	}
	return append([]domain.Video(nil), videos...), true
}

func (c *Videos) Add(key ports.VideoKey, videos []domain.Video) {
	c.lru.Add(fold(key), append([]domain.Video(nil), videos...))
}

// Len reports the number of live entries.
func (c *Videos) Len() int {
	return c.lru.Len()
}

func fold(key ports.VideoKey) ports.VideoKey {
	return ports.VideoKey{
		Title:  strings.ToLower(strings.TrimSpace(key.Title)),
		Artist: strings.ToLower(strings.TrimSpace(key.Artist)),
		Type:   key.Type,
	}
}
