// Package app wires the adapters, the discovery service and the HTTP handler
// from a loaded configuration. Both binaries build on it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ewilliams-labs/mashup/internal/adapters/rest"
	"github.com/ewilliams-labs/mashup/internal/adapters/spotify"
	"github.com/ewilliams-labs/mashup/internal/adapters/sqlite"
	"github.com/ewilliams-labs/mashup/internal/adapters/youtube"
	"github.com/ewilliams-labs/mashup/internal/cache"
	"github.com/ewilliams-labs/mashup/internal/config"
	"github.com/ewilliams-labs/mashup/internal/core/services"
	"github.com/ewilliams-labs/mashup/internal/metrics"
	"github.com/ewilliams-labs/mashup/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// App holds the running components.
type App struct {
	Discovery *services.Discovery
	Handler   *rest.Handler
	Metrics   *metrics.Metrics

	cfg     *config.Config
	catalog *sqlite.Catalog
	pool    *worker.Pool
}

// New builds every component. Providers without credentials are left out and
// the service falls back to the catalog and placeholder videos.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	m := metrics.New(prometheus.NewRegistry())

	catalog, err := sqlite.NewCatalog(ctx, cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("app: open catalog: %w", err)
	}

	a := &App{Metrics: m, cfg: cfg, catalog: catalog}
	opts := []services.Option{services.WithMetrics(m)}

	if cfg.SpotifyConfigured() {
		sp, err := spotify.NewClient(spotify.Options{
			ClientID:      cfg.Spotify.ClientID,
			ClientSecret:  cfg.Spotify.ClientSecret,
			BaseURL:       cfg.Spotify.BaseURL,
			TokenURL:      cfg.Spotify.TokenURL,
			Market:        cfg.Spotify.Market,
			Timeout:       cfg.Spotify.Timeout,
			MaxRetries:    cfg.Spotify.MaxRetries,
			RetryBackoff:  cfg.Spotify.RetryBackoff,
			RateLimit:     cfg.Spotify.RateLimit,
			RateBurst:     cfg.Spotify.RateBurst,
			RefreshMargin: cfg.Spotify.RefreshMargin,
			Metrics:       m,
		})
		if err != nil {
			_ = catalog.Close()
			return nil, fmt.Errorf("app: spotify client: %w", err)
		}
		opts = append(opts, services.WithMetadataProvider(sp))
	}

	if cfg.YouTubeConfigured() {
		yt, err := youtube.NewClient(ctx, youtube.Options{
			APIKey:  cfg.YouTube.APIKey,
			BaseURL: cfg.YouTube.BaseURL,
			Timeout: cfg.YouTube.Timeout,
			Metrics: m,
		})
		if err != nil {
			_ = catalog.Close()
			return nil, fmt.Errorf("app: youtube client: %w", err)
		}
		videoCache := cache.NewVideos(cfg.Cache.VideoCapacity, cfg.Cache.VideoTTL)
		opts = append(opts, services.WithVideoProvider(yt), services.WithVideoCache(videoCache))

		if cfg.Worker.PrefetchWorkers > 0 {
			a.pool = worker.NewPool(yt, videoCache, cfg.Worker.QueueSize)
			a.pool.Start(cfg.Worker.PrefetchWorkers)
			opts = append(opts, services.WithPrefetcher(a.pool))
		}
	}

	a.Discovery = services.NewDiscovery(catalog, opts...)
	a.Handler = rest.NewHandler(a.Discovery, rest.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        m,
	})

	slog.Info("app: ready",
		"spotify", cfg.SpotifyConfigured(),
		"youtube", cfg.YouTubeConfigured(),
		"prefetch_workers", a.prefetchWorkers(),
		"catalog", cfg.Catalog.Path,
	)
	return a, nil
}

func (a *App) prefetchWorkers() int {
	if a.pool == nil {
		return 0
	}
	return a.cfg.Worker.PrefetchWorkers
}

// Close drains the prefetch queue and closes the catalog.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.pool != nil {
		if err := a.pool.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("app: stop prefetch pool: %w", err))
		}
	}
	if err := a.catalog.Close(); err != nil {
		errs = append(errs, fmt.Errorf("app: close catalog: %w", err))
	}
	return errors.Join(errs...)
}

// Serve runs the HTTP API on the configured address until ctx is done, then
// shuts the server down and closes the app.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.Handler,
		ReadHeaderTimeout: a.cfg.Server.ReadTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()
	slog.Info("app: listening", "addr", a.cfg.Server.Addr)

	var runErr error
	select {
	case runErr = <-serverErr:
	case <-ctx.Done():
		slog.Info("app: shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("app: shutdown", "error", err)
	}
	if err := a.Close(shutdownCtx); err != nil {
		slog.Error("app: close", "error", err)
	}
	return runErr
}
