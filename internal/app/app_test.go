package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ewilliams-labs/mashup/internal/app"
	"github.com/ewilliams-labs/mashup/internal/config"
	"github.com/ewilliams-labs/mashup/internal/core/domain"
)

func baseConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Catalog.Path = ":memory:"
	cfg.Cache.VideoCapacity = 16
	cfg.Cache.VideoTTL = time.Minute
	return cfg
}

func newApp(t *testing.T, cfg *config.Config) *app.App {
	t.Helper()
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() {
		if err := a.Close(context.Background()); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return a
}

func TestApp_UnconfiguredServesFallback(t *testing.T) {
	a := newApp(t, baseConfig())

	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/compatible?bpm=120", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Data-Source"); got != "fallback" {
		t.Errorf("X-Data-Source: got %q", got)
	}
	var tracks []domain.Track
	if err := json.Unmarshal(rec.Body.Bytes(), &tracks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tracks) == 0 {
		t.Error("expected sample tracks near 120 bpm")
	}

	rec = httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/videos?q=anything&type=acapella", nil))
	if got := rec.Header().Get("X-Data-Source"); got != "mock" {
		t.Errorf("videos X-Data-Source: got %q", got)
	}
}

func TestApp_YouTubeConfiguredCachesLookups(t *testing.T) {
	var searches atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/search"):
			searches.Add(1)
			_, _ = w.Write([]byte(`{"items":[{"id":{"kind":"youtube#video","videoId":"v1"},"snippet":{"title":"Instrumental"}}]}`))
		case strings.HasSuffix(r.URL.Path, "/videos"):
			_, _ = w.Write([]byte(`{"items":[{"id":"v1","contentDetails":{"duration":"PT3M"}}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	cfg := baseConfig()
	cfg.YouTube.APIKey = "test-key"
	cfg.YouTube.BaseURL = ts.URL

	a := newApp(t, cfg)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/videos?title=Song&artist=Band&type=instrumental", nil))
		if got := rec.Header().Get("X-Data-Source"); got != "live" {
			t.Fatalf("call %d X-Data-Source: got %q, body %s", i, got, rec.Body.String())
		}
	}
	if got := searches.Load(); got != 1 {
		t.Errorf("provider searches: got %d, want 1", got)
	}
}
