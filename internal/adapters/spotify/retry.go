package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ewilliams-labs/mashup/internal/core/ports"
)

const (
	defaultMaxAttempts = 2
	defaultBackoffMs   = 300
	maxErrorBody       = 4 << 10
)

// doRequestWithRetry sends req, retrying network failures and 5xx answers with
// exponential backoff. 429 is returned to the caller untouched.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	maxAttempts := c.maxRetries
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	baseBackoff := c.baseBackoff
	if baseBackoff <= 0 {
		baseBackoff = time.Duration(defaultBackoffMs) * time.Millisecond
	}

	ctx := req.Context()
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("spotify adapter: request canceled: %w", err)
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("spotify adapter: rate limiter: %w", err)
			}
		}

		// #nosec G107 -- URL constructed from the configured Spotify API base URL
		resp, err := c.httpClient.Do(req)
		if err != nil {
			// token endpoint failures are already classified and not worth repeating
			var provErr *ports.ProviderError
			if errors.As(err, &provErr) {
				return nil, provErr
			}
			if ctx.Err() != nil {
				return nil, fmt.Errorf("spotify adapter: request canceled: %w", ctx.Err())
			}
			lastErr = err
		} else if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			drainAndClose(resp)
		} else {
			return resp, nil
		}

		if attempt == maxAttempts-1 {
			break
		}

		slog.Warn("spotify adapter: retrying request",
			"attempt", attempt+1, "max_attempts", maxAttempts, "error", lastErr)

		if err := sleepWithContext(ctx, baseBackoff*time.Duration(1<<attempt)); err != nil {
			return nil, err
		}
	}

	return nil, &ports.ProviderError{
		Provider: providerName,
		Kind:     ports.ErrProviderUnreachable,
		Err:      fmt.Errorf("request failed after %d attempts: %w", maxAttempts, lastErr),
	}
}

// getJSON issues a GET against path and decodes a 200 answer into out.
// Any other status becomes a *ports.ProviderError.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("spotify adapter: failed to create request: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		c.metrics.ProviderRequest(providerName, outcomeOf(err))
		return err
	}
	defer drainAndClose(resp)

	if err := classifyStatus(resp); err != nil {
		c.metrics.ProviderRequest(providerName, outcomeOf(err))
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.ProviderRequest(providerName, "decode_error")
		return fmt.Errorf("spotify adapter: decode %s: %w", path, err)
	}
	c.metrics.ProviderRequest(providerName, "ok")
	return nil
}

func classifyStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	provErr := &ports.ProviderError{
		Provider:   providerName,
		StatusCode: resp.StatusCode,
		Err:        errors.New(strings.TrimSpace(string(body))),
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		provErr.Kind = ports.ErrProviderUnauthorized
	case http.StatusTooManyRequests:
		provErr.Kind = ports.ErrProviderRateLimited
		provErr.RetryAfter = parseRetryAfter(resp)
	default:
		provErr.Kind = ports.ErrProviderUnreachable
	}
	return provErr
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ports.ErrProviderUnauthorized):
		return "unauthorized"
	case errors.Is(err, ports.ErrProviderRateLimited):
		return "rate_limited"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "unreachable"
	}
}

func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if when, err := http.ParseTime(retryAfter); err == nil {
		until := time.Until(when)
		if until > 0 {
			return until
		}
	}

	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("spotify adapter: request canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}
