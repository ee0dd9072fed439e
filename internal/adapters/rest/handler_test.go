package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/mashup/internal/adapters/spotify"
	"github.com/ewilliams-labs/mashup/internal/adapters/sqlite"
	"github.com/ewilliams-labs/mashup/internal/cache"
	"github.com/ewilliams-labs/mashup/internal/core/domain"
	"github.com/ewilliams-labs/mashup/internal/core/ports"
	"github.com/ewilliams-labs/mashup/internal/core/services"
	"github.com/ewilliams-labs/mashup/internal/metrics"
)

// --- Helpers ---

type testEnv struct {
	handler      *Handler
	spotifyCalls *atomic.Int32
}

// newTestEnv wires a real service over an in-memory catalog. spotifyHandler, when
// set, fakes the Spotify Web API; otherwise the provider is left unconfigured.
func newTestEnv(t *testing.T, spotifyHandler http.HandlerFunc, opts ...services.Option) testEnv {
	t.Helper()

	catalog, err := sqlite.NewCatalog(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	t.Cleanup(func() { catalog.Close() })

	calls := &atomic.Int32{}
	m := metrics.New(prometheus.NewRegistry())
	opts = append(opts, services.WithMetrics(m))

	if spotifyHandler != nil {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			spotifyHandler(w, r)
		}))
		t.Cleanup(ts.Close)

		client, err := spotify.NewClient(spotify.Options{
			BaseURL:      ts.URL,
			Tokens:       oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test"}),
			RetryBackoff: time.Millisecond,
		})
		if err != nil {
			t.Fatalf("spotify client: %v", err)
		}
		opts = append(opts, services.WithMetadataProvider(client))
	}

	svc := services.NewDiscovery(catalog, opts...)
	return testEnv{
		handler:      NewHandler(svc, Options{AllowedOrigins: []string{"http://localhost:5173"}, Metrics: m}),
		spotifyCalls: calls,
	}
}

func (e testEnv) get(t *testing.T, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeTracks(t *testing.T, rec *httptest.ResponseRecorder) []domain.Track {
	t.Helper()
	var tracks []domain.Track
	if err := json.NewDecoder(rec.Body).Decode(&tracks); err != nil {
		t.Fatalf("decode tracks: %v (body %q)", err, rec.Body.String())
	}
	return tracks
}

type failingVideos struct{}

func (failingVideos) SearchVideos(ctx context.Context, query string, kind domain.VideoType) ([]domain.Video, error) {
	return nil, errors.New("video provider should not be called")
}

func portsKey(title string, kind domain.VideoType) ports.VideoKey {
	return ports.VideoKey{Title: title, Type: kind}
}

func ids(tracks []domain.Track) string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.ID
	}
	return strings.Join(out, ",")
}

// --- Tests ---

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.get(t, "/health", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body: %v", body)
	}
}

func TestSearch_ProviderForbiddenServesFilteredCatalog(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"status":403,"message":"Forbidden"}}`))
	})

	rec := env.get(t, "/api/search?q=dua", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Data-Source"); got != "fallback" {
		t.Errorf("X-Data-Source: got %q", got)
	}
	tracks := decodeTracks(t, rec)
	if got := ids(tracks); got != "sample-4,sample-8" {
		t.Fatalf("ids: got %s", got)
	}
	for _, tr := range tracks {
		if tr.Source != domain.SourceFallback {
			t.Errorf("%s: source %q", tr.ID, tr.Source)
		}
	}
	if env.spotifyCalls.Load() != 1 {
		t.Errorf("403 should not be retried: %d calls", env.spotifyCalls.Load())
	}
}

func TestSearch_Live(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			_, _ = w.Write([]byte(`{"tracks":{"items":[{"id":"4uLU6hMCjMI75M1A2tKUQC","name":"Never Gonna Give You Up","duration_ms":213573,"artists":[{"name":"Rick Astley"}],"album":{"name":"Whenever You Need Somebody","release_date":"1987-11-12","images":[]}}]}}`))
		case "/audio-features":
			_, _ = w.Write([]byte(`{"audio_features":[{"id":"4uLU6hMCjMI75M1A2tKUQC","tempo":113.3,"key":8,"mode":1}]}`))
		}
	})

	rec := env.get(t, "/api/search?q=rick", nil)
	if got := rec.Header().Get("X-Data-Source"); got != "live" {
		t.Errorf("X-Data-Source: got %q", got)
	}
	tracks := decodeTracks(t, rec)
	if len(tracks) != 1 {
		t.Fatalf("got %+v", tracks)
	}
	want := domain.Track{ID: "4uLU6hMCjMI75M1A2tKUQC", Title: "Never Gonna Give You Up", Artist: "Rick Astley", BPM: 113, Key: "G# major", Duration: 214, Source: domain.SourceMeasured}
	got := tracks[0]
	if got.ID != want.ID || got.BPM != want.BPM || got.Key != want.Key || got.Duration != want.Duration || got.Source != want.Source {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.get(t, "/api/search", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", rec.Code)
	}
	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != "INVALID_REQUEST" || body.Error == "" {
		t.Fatalf("body: %+v", body)
	}
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantIDs    string
	}{
		{name: "missing bpm", target: "/api/compatible", wantStatus: http.StatusBadRequest},
		{name: "non numeric bpm", target: "/api/compatible?bpm=fast", wantStatus: http.StatusBadRequest},
		{name: "zero bpm", target: "/api/compatible?bpm=0", wantStatus: http.StatusBadRequest},
		{name: "absurd bpm", target: "/api/compatible?bpm=4611686018427387904", wantStatus: http.StatusBadRequest},
		{name: "bpm out of int range", target: "/api/compatible?bpm=99999999999999999999", wantStatus: http.StatusBadRequest},
		{name: "bad strictKey", target: "/api/compatible?bpm=120&strictKey=maybe", wantStatus: http.StatusBadRequest},
		{
			name:       "excludes the base track",
			target:     "/api/compatible?bpm=116&excludeId=sample-5",
			wantStatus: http.StatusOK,
			wantIDs:    "sample-2,sample-6",
		},
		{
			name:       "key is advisory by default",
			target:     "/api/compatible?bpm=116&key=C%20major",
			wantStatus: http.StatusOK,
			wantIDs:    "sample-5,sample-2,sample-6",
		},
		{
			name:       "strict key with flat spelling",
			target:     "/api/compatible?bpm=116&key=gb%20minor&strictKey=true",
			wantStatus: http.StatusOK,
			wantIDs:    "sample-5,sample-6",
		},
		{
			name:       "half time matches",
			target:     "/api/compatible?bpm=342",
			wantStatus: http.StatusOK,
			wantIDs:    "sample-1",
		},
	}

	env := newTestEnv(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.get(t, tt.target, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				var body errorResponse
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body.Code != "INVALID_REQUEST" {
					t.Fatalf("error body: %+v (%v)", body, err)
				}
				return
			}
			if got := ids(decodeTracks(t, rec)); got != tt.wantIDs {
				t.Fatalf("ids: got %s, want %s", got, tt.wantIDs)
			}
		})
	}
}

func TestCompatible_RateLimitedWarning(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	rec := env.get(t, "/api/compatible?bpm=120&genre=house", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if rec.Header().Get("X-Data-Source") != "fallback" {
		t.Errorf("X-Data-Source: got %q", rec.Header().Get("X-Data-Source"))
	}
	if !strings.HasPrefix(rec.Header().Get("Warning"), "199 ") {
		t.Errorf("Warning: got %q", rec.Header().Get("Warning"))
	}
}

func TestVideos_UnconfiguredReturnsMocks(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.get(t, "/api/videos?title=Get%20Lucky&artist=Daft%20Punk&type=acapella", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if rec.Header().Get("X-Data-Source") != "mock" {
		t.Errorf("X-Data-Source: got %q", rec.Header().Get("X-Data-Source"))
	}

	var videos []domain.Video
	if err := json.NewDecoder(rec.Body).Decode(&videos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"mock-acapella-1", "mock-acapella-2", "mock-acapella-3"}
	if len(videos) != len(want) {
		t.Fatalf("got %+v", videos)
	}
	for i, v := range videos {
		if v.ID != want[i] {
			t.Errorf("video %d: got %s, want %s", i, v.ID, want[i])
		}
	}
}

func TestVideos_Invalid(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, target := range []string{
		"/api/videos?q=song&type=karaoke",
		"/api/videos?q=song",
		"/api/videos?type=instrumental",
	} {
		if rec := env.get(t, target, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d", target, rec.Code)
		}
	}
}

func TestVideos_ServedFromCache(t *testing.T) {
	c := cache.NewVideos(8, time.Minute)
	c.Add(portsKey("Levitating", domain.VideoInstrumental), []domain.Video{{ID: "cached-1"}})
	env := newTestEnv(t, nil, services.WithVideoProvider(failingVideos{}), services.WithVideoCache(c))

	rec := env.get(t, "/api/videos?q=levitating&type=instrumental", nil)
	if rec.Header().Get("X-Data-Source") != "live" || !strings.Contains(rec.Body.String(), "cached-1") {
		t.Fatalf("headers %v body %s", rec.Header(), rec.Body.String())
	}
}

func TestMiddleware(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("request id is generated", func(t *testing.T) {
		rec := env.get(t, "/health", nil)
		if _, err := uuid.Parse(rec.Header().Get("X-Request-ID")); err != nil {
			t.Fatalf("X-Request-ID: %q", rec.Header().Get("X-Request-ID"))
		}
	})

	t.Run("valid request id is kept", func(t *testing.T) {
		id := uuid.NewString()
		rec := env.get(t, "/health", map[string]string{"X-Request-ID": id})
		if rec.Header().Get("X-Request-ID") != id {
			t.Fatalf("X-Request-ID: got %q, want %q", rec.Header().Get("X-Request-ID"), id)
		}
	})

	t.Run("sequence is echoed", func(t *testing.T) {
		rec := env.get(t, "/api/search?q=adele", map[string]string{"X-Request-Seq": "42"})
		if rec.Header().Get("X-Request-Seq") != "42" {
			t.Fatalf("X-Request-Seq: got %q", rec.Header().Get("X-Request-Seq"))
		}
		rec = env.get(t, "/api/search?q=adele", map[string]string{"X-Request-Seq": "abc"})
		if rec.Header().Get("X-Request-Seq") != "" {
			t.Fatalf("invalid sequence echoed: %q", rec.Header().Get("X-Request-Seq"))
		}
	})

	t.Run("cors allows listed origin", func(t *testing.T) {
		rec := env.get(t, "/health", map[string]string{"Origin": "http://localhost:5173"})
		if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
			t.Fatalf("allow origin: %q", rec.Header().Get("Access-Control-Allow-Origin"))
		}
		if !strings.Contains(rec.Header().Get("Access-Control-Expose-Headers"), "X-Data-Source") {
			t.Fatalf("expose headers: %q", rec.Header().Get("Access-Control-Expose-Headers"))
		}
	})

	t.Run("cors ignores other origins", func(t *testing.T) {
		rec := env.get(t, "/health", map[string]string{"Origin": "http://evil.test"})
		if rec.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Fatalf("allow origin: %q", rec.Header().Get("Access-Control-Allow-Origin"))
		}
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status: got %d", rec.Code)
		}
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		env.get(t, "/api/search?q=adele", nil)
		rec := env.get(t, "/metrics", nil)
		body := rec.Body.String()
		if !strings.Contains(body, "mashup_http_request_duration_seconds") || !strings.Contains(body, `mashup_fallback_total{operation="search",reason="unconfigured"}`) {
			t.Fatalf("metrics body missing series:\n%s", body)
		}
	})
}
