package rest

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// requestID tags every response with an id, reusing the caller's when it is a valid UUID.
func (h *Handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		slog.Debug("rest: request", "id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) cors(next http.Handler) http.Handler {
	exposed := strings.Join([]string{headerDataSource, headerWarning, headerRequestID, headerRequestSeq}, ", ")
	allowed := strings.Join([]string{"Content-Type", headerRequestID, headerRequestSeq}, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin, ok := h.allowOrigin(r.Header.Get("Origin")); ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", allowed)
			w.Header().Set("Access-Control-Expose-Headers", exposed)
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) allowOrigin(origin string) (string, bool) {
	if _, wildcard := h.origins["*"]; wildcard {
		return "*", true
	}
	if origin == "" {
		return "", false
	}
	_, ok := h.origins[origin]
	return origin, ok
}

// echoSequence returns the client's request sequence number so it can discard
// responses to requests it has since superseded.
func (h *Handler) echoSequence(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get(headerRequestSeq); raw != "" {
			if _, err := strconv.ParseUint(raw, 10, 64); err == nil {
				w.Header().Set(headerRequestSeq, raw)
			}
		}
		next.ServeHTTP(w, r)
	})
}
