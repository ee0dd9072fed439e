// Package client is a Go client for the mashup HTTP API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/mashup/internal/core/domain"
)

const defaultTimeout = 15 * time.Second

// Client calls a running mashup API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for baseURL. A nil httpClient gets a default with a timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// TrackResponse is the answer to a search or compatibility request.
type TrackResponse struct {
	Tracks  []domain.Track
	Source  string // live or fallback
	Warning string
	Seq     uint64
}

// VideoResponse is the answer to a video lookup.
type VideoResponse struct {
	Videos  []domain.Video
	Source  string // live or mock
	Warning string
	Seq     uint64
}

// CompatibleParams mirrors the /api/compatible query string.
type CompatibleParams struct {
	BPM       int
	Key       string
	ExcludeID string
	Genre     string
	Search    string
	StrictKey bool
}

// VideoParams mirrors the /api/videos query string.
type VideoParams struct {
	Query  string
	Title  string
	Artist string
	Type   domain.VideoType
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mashup api: %d %s: %s", e.Status, e.Code, e.Message)
}

// Search calls GET /api/search.
func (c *Client) Search(ctx context.Context, query string) (*TrackResponse, error) {
	return c.search(ctx, query, 0)
}

// Compatible calls GET /api/compatible.
func (c *Client) Compatible(ctx context.Context, p CompatibleParams) (*TrackResponse, error) {
	return c.compatible(ctx, p, 0)
}

// Videos calls GET /api/videos.
func (c *Client) Videos(ctx context.Context, p VideoParams) (*VideoResponse, error) {
	return c.videos(ctx, p, 0)
}

func (c *Client) search(ctx context.Context, query string, seq uint64) (*TrackResponse, error) {
	var tracks []domain.Track
	meta, err := c.get(ctx, "/api/search", url.Values{"q": {query}}, seq, &tracks)
	if err != nil {
		return nil, err
	}
	return &TrackResponse{Tracks: tracks, Source: meta.source, Warning: meta.warning, Seq: meta.seq}, nil
}

func (c *Client) compatible(ctx context.Context, p CompatibleParams, seq uint64) (*TrackResponse, error) {
	params := url.Values{"bpm": {strconv.Itoa(p.BPM)}}
	setIf(params, "key", p.Key)
	setIf(params, "excludeId", p.ExcludeID)
	setIf(params, "genre", p.Genre)
	setIf(params, "search", p.Search)
	if p.StrictKey {
		params.Set("strictKey", "true")
	}

	var tracks []domain.Track
	meta, err := c.get(ctx, "/api/compatible", params, seq, &tracks)
	if err != nil {
		return nil, err
	}
	return &TrackResponse{Tracks: tracks, Source: meta.source, Warning: meta.warning, Seq: meta.seq}, nil
}

func (c *Client) videos(ctx context.Context, p VideoParams, seq uint64) (*VideoResponse, error) {
	params := url.Values{"type": {string(p.Type)}}
	setIf(params, "q", p.Query)
	setIf(params, "title", p.Title)
	setIf(params, "artist", p.Artist)

	var videos []domain.Video
	meta, err := c.get(ctx, "/api/videos", params, seq, &videos)
	if err != nil {
		return nil, err
	}
	return &VideoResponse{Videos: videos, Source: meta.source, Warning: meta.warning, Seq: meta.seq}, nil
}

type responseMeta struct {
	source  string
	warning string
	seq     uint64
}

func (c *Client) get(ctx context.Context, path string, params url.Values, seq uint64, out any) (responseMeta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return responseMeta{}, fmt.Errorf("mashup api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if seq > 0 {
		req.Header.Set("X-Request-Seq", strconv.FormatUint(seq, 10))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return responseMeta{}, fmt.Errorf("mashup api: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		if json.Unmarshal(raw, &body) == nil {
			apiErr.Code, apiErr.Message = body.Code, body.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return responseMeta{}, apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return responseMeta{}, fmt.Errorf("mashup api: decode %s: %w", path, err)
	}

	meta := responseMeta{
		source:  resp.Header.Get("X-Data-Source"),
		warning: parseWarning(resp.Header.Get("Warning")),
	}
	if raw := resp.Header.Get("X-Request-Seq"); raw != "" {
		meta.seq, _ = strconv.ParseUint(raw, 10, 64)
	}
	return meta, nil
}

// parseWarning extracts the quoted text from `199 agent "text"`.
func parseWarning(header string) string {
	start := strings.IndexByte(header, '"')
	if start < 0 {
		return header
	}
	text, err := strconv.Unquote(header[start:])
	if err != nil {
		return header
	}
	return text
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

// IsInvalidRequest reports whether err is a 400 answer from the API.
func IsInvalidRequest(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest
}
