package spotify

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ewilliams-labs/mashup/internal/core/ports"
)

const (
	minRefreshMargin     = 60 * time.Second
	maxRefreshMargin     = 300 * time.Second
	defaultRefreshMargin = 120 * time.Second
)

// TokenCache holds the client-credentials bearer token. The token is fetched on
// first use and replaced once it is within the refresh margin of expiring.
// It is safe for concurrent use.
type TokenCache struct {
	source oauth2.TokenSource
}

var _ oauth2.TokenSource = (*TokenCache)(nil)

// NewTokenCache wraps cfg. margin is clamped to 60-300s; timeout bounds each fetch.
func NewTokenCache(cfg *clientcredentials.Config, margin time.Duration, timeout time.Duration) *TokenCache {
	if margin == 0 {
		margin = defaultRefreshMargin
	}
	margin = min(max(margin, minRefreshMargin), maxRefreshMargin)
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})
	fetch := &credentialSource{ctx: ctx, cfg: cfg}
	return &TokenCache{source: oauth2.ReuseTokenSourceWithExpiry(nil, fetch, margin)}
}

// Token returns the cached token or fetches a new one.
func (c *TokenCache) Token() (*oauth2.Token, error) {
	return c.source.Token()
}

// credentialSource always asks the token endpoint; caching is left to the
// ReuseTokenSource wrapped around it.
type credentialSource struct {
	ctx context.Context
	cfg *clientcredentials.Config
}

func (s *credentialSource) Token() (*oauth2.Token, error) {
	tok, err := s.cfg.Token(s.ctx)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	return tok, nil
}

func classifyTokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		status := retrieveErr.Response.StatusCode
		switch {
		case status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusForbidden:
			return &ports.ProviderError{Provider: providerName, Kind: ports.ErrProviderUnauthorized, StatusCode: status, Err: err}
		case status == http.StatusTooManyRequests:
			return &ports.ProviderError{Provider: providerName, Kind: ports.ErrProviderRateLimited, StatusCode: status, Err: err}
		}
	}
	return &ports.ProviderError{Provider: providerName, Kind: ports.ErrProviderUnreachable, Err: err}
}
