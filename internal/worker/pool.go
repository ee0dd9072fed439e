// Package worker warms the video cache in the background.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ewilliams-labs/mashup/internal/core/domain"
	"github.com/ewilliams-labs/mashup/internal/core/ports"
)

const defaultJobTimeout = 20 * time.Second

// Pool looks up videos for submitted tracks and stores them in the cache, so the
// first preview request for a top result is served without a provider call.
type Pool struct {
	videos     ports.VideoProvider
	cache      ports.VideoCache
	jobs       chan domain.Track
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	jobTimeout time.Duration

	mu     sync.RWMutex // guards closed against Submit racing Stop
	closed bool
}

var _ ports.Prefetcher = (*Pool)(nil)

// NewPool creates a pool with the given queue size. Call Start before Submit.
func NewPool(videos ports.VideoProvider, cache ports.VideoCache, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		videos:     videos,
		cache:      cache,
		jobs:       make(chan domain.Track, queueSize),
		ctx:        ctx,
		cancel:     cancel,
		jobTimeout: defaultJobTimeout,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for track := range p.jobs {
				p.processJob(track)
			}
		}()
	}
}

// Stop closes the queue and waits for queued jobs to finish. If ctx expires
// first, in-flight lookups are canceled and ctx's error is returned once the
// workers have exited.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return ctx.Err()
	}
}

// Submit queues a track without blocking. Jobs are dropped when the queue is full
// or the pool is stopped.
func (p *Pool) Submit(track domain.Track) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.jobs <- track:
	default:
		slog.Debug("worker: prefetch queue full, dropping", "track", track.ID)
	}
}

func (p *Pool) processJob(track domain.Track) {
	for _, kind := range []domain.VideoType{domain.VideoInstrumental, domain.VideoAcapella} {
		if p.ctx.Err() != nil {
			return
		}

		key := ports.VideoKey{Title: track.Title, Artist: track.Artist, Type: kind}
		if _, ok := p.cache.Get(key); ok {
			continue
		}

		ctx, cancel := context.WithTimeout(p.ctx, p.jobTimeout)
		videos, err := p.videos.SearchVideos(ctx, key.Query(), kind)
		cancel()
		if err != nil {
			slog.Warn("worker: prefetch failed", "track", track.ID, "type", kind, "error", err)
			// the next type would hit the same quota
			if errors.Is(err, ports.ErrProviderRateLimited) {
				return
			}
			continue
		}

		if len(videos) > domain.MaxVideos {
			videos = videos[:domain.MaxVideos]
		}
		p.cache.Add(key, videos)
		slog.Debug("worker: prefetched videos", "track", track.ID, "type", kind, "count", len(videos))
	}
}
