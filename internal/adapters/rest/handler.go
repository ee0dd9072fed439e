// Package rest exposes the discovery service over HTTP.
package rest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ewilliams-labs/mashup/internal/core/services"
	"github.com/ewilliams-labs/mashup/internal/metrics"
)

const (
	headerDataSource = "X-Data-Source"
	headerRequestID  = "X-Request-ID"
	headerRequestSeq = "X-Request-Seq"
	headerWarning    = "Warning"
)

// Options configures NewHandler.
type Options struct {
	// AllowedOrigins lists browser origins allowed by CORS; "*" allows any.
	AllowedOrigins []string
	Metrics        *metrics.Metrics
}

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc     *services.Discovery
	router  *http.ServeMux
	metrics *metrics.Metrics
	origins map[string]struct{}
	next    http.Handler
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Discovery, opts Options) *Handler {
	h := &Handler{
		svc:     svc,
		router:  http.NewServeMux(),
		metrics: opts.Metrics,
		origins: make(map[string]struct{}, len(opts.AllowedOrigins)),
	}
	for _, o := range opts.AllowedOrigins {
		h.origins[o] = struct{}{}
	}

	h.routes()
	h.next = h.requestID(h.cors(h.echoSequence(h.router)))

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.next.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)
	h.router.Handle("GET /metrics", h.metrics.Handler())

	h.router.HandleFunc("GET /api/search", h.timed("search", h.Search))
	h.router.HandleFunc("GET /api/compatible", h.timed("compatible", h.Compatible))
	h.router.HandleFunc("GET /api/videos", h.timed("videos", h.Videos))
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "mashup is live"})
}

func (h *Handler) timed(route string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		fn(w, r)
		h.metrics.ObserveRequest(route, started)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("rest: failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// writeSource sets the data source header and, when present, a soft warning.
func writeSource(w http.ResponseWriter, source services.ResultSource, warning string) {
	w.Header().Set(headerDataSource, string(source))
	if warning != "" {
		w.Header().Set(headerWarning, fmt.Sprintf("199 mashup %q", warning))
	}
}
