package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/mashup/internal/core/domain"
	"github.com/ewilliams-labs/mashup/internal/core/ports"
	"github.com/ewilliams-labs/mashup/internal/core/services"
)

const (
	errCodeInvalidRequest = "INVALID_REQUEST"
	errCodeInternal       = "INTERNAL"
)

// Search handles GET /api/search?q=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeSource(w, result.Source, result.Warning)
	writeJSON(w, http.StatusOK, result.Tracks)
}

// Compatible handles GET /api/compatible?bpm=&key=&excludeId=&genre=&search=&strictKey=
func (h *Handler) Compatible(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	rawBPM := strings.TrimSpace(params.Get("bpm"))
	if rawBPM == "" {
		writeError(w, http.StatusBadRequest, "bpm is required", errCodeInvalidRequest)
		return
	}
	bpm, err := strconv.Atoi(rawBPM)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bpm must be an integer", errCodeInvalidRequest)
		return
	}

	strict := false
	if raw := params.Get("strictKey"); raw != "" {
		strict, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "strictKey must be true or false", errCodeInvalidRequest)
			return
		}
	}

	result, err := h.svc.Compatible(r.Context(), domain.CompatibilityQuery{
		BPM:       bpm,
		Key:       params.Get("key"),
		ExcludeID: params.Get("excludeId"),
		Genre:     params.Get("genre"),
		Search:    params.Get("search"),
		StrictKey: strict,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeSource(w, result.Source, result.Warning)
	writeJSON(w, http.StatusOK, result.Tracks)
}

// Videos handles GET /api/videos?q=|title=&artist=&type=
func (h *Handler) Videos(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	result, err := h.svc.Videos(r.Context(), services.VideoQuery{
		Query:  params.Get("q"),
		Title:  params.Get("title"),
		Artist: params.Get("artist"),
		Type:   domain.VideoType(params.Get("type")),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeSource(w, result.Source, result.Warning)
	writeJSON(w, http.StatusOK, result.Videos)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ports.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error(), errCodeInvalidRequest)
		return
	}
	slog.Error("rest: unexpected service error", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error", errCodeInternal)
}
