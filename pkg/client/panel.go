package client

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned for a response that arrived after a newer request
// was issued on the same Panel.
var ErrSuperseded = errors.New("mashup api: request superseded")

// Panel serializes the requests behind one UI element, such as a search box.
// Each call gets a higher sequence number than the last and cancels the call
// before it, so a slow stale answer can never replace a newer one.
// A Panel is safe for concurrent use.
type Panel struct {
	client *Client

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewPanel returns a Panel issuing requests through c.
func (c *Client) NewPanel() *Panel {
	return &Panel{client: c}
}

// Search is Client.Search with supersession.
func (p *Panel) Search(ctx context.Context, query string) (*TrackResponse, error) {
	return run(p, ctx, func(ctx context.Context, seq uint64) (*TrackResponse, error) {
		return p.client.search(ctx, query, seq)
	})
}

// Compatible is Client.Compatible with supersession.
func (p *Panel) Compatible(ctx context.Context, params CompatibleParams) (*TrackResponse, error) {
	return run(p, ctx, func(ctx context.Context, seq uint64) (*TrackResponse, error) {
		return p.client.compatible(ctx, params, seq)
	})
}

// Videos is Client.Videos with supersession.
func (p *Panel) Videos(ctx context.Context, params VideoParams) (*VideoResponse, error) {
	return run(p, ctx, func(ctx context.Context, seq uint64) (*VideoResponse, error) {
		return p.client.videos(ctx, params, seq)
	})
}

// Latest returns the sequence number of the most recent request.
func (p *Panel) Latest() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seq
}

// Cancel aborts the in-flight request, if any.
func (p *Panel) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Panel) begin(ctx context.Context) (context.Context, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	p.seq++
	p.cancel = cancel
	return ctx, p.seq
}

func (p *Panel) finish(seq uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq != p.seq {
		return false
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	return true
}

func run[T any](p *Panel, parent context.Context, call func(context.Context, uint64) (T, error)) (T, error) {
	ctx, seq := p.begin(parent)
	out, err := call(ctx, seq)

	if !p.finish(seq) {
		var zero T
		return zero, ErrSuperseded
	}
	return out, err
}
