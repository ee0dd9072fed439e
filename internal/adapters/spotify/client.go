// Package spotify adapts the Spotify Web API to the metadata provider port.
package spotify

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/mashup/internal/core/ports"
	"github.com/ewilliams-labs/mashup/internal/metrics"
)

const (
	defaultBaseURL  = "https://api.spotify.com/v1"
	defaultTokenURL = "https://accounts.spotify.com/api/token"
	defaultMarket   = "US"
	defaultTimeout  = 8 * time.Second
	providerName    = "spotify"
)

// Client is an HTTP client for the Spotify adapter.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	market      string
	maxRetries  int
	baseBackoff time.Duration
	limiter     *rate.Limiter
	metrics     *metrics.Metrics
	now         func() time.Time
}

// compile-time interface assertion
var _ ports.MetadataProvider = (*Client)(nil)

// Options configures NewClient. Zero values fall back to the defaults.
type Options struct {
	ClientID      string
	ClientSecret  string
	BaseURL       string
	TokenURL      string
	Market        string
	Timeout       time.Duration
	MaxRetries    int
	RetryBackoff  time.Duration
	RateLimit     float64 // requests per second, 0 disables pacing
	RateBurst     int
	RefreshMargin time.Duration
	Metrics       *metrics.Metrics
	// Tokens overrides the token cache built from the credentials.
	Tokens oauth2.TokenSource
}

// NewClient builds an authenticated client. It returns ports.ErrConfigurationMissing
// when no credentials are supplied.
func NewClient(opts Options) (*Client, error) {
	tokens := opts.Tokens
	if tokens == nil {
		if opts.ClientID == "" || opts.ClientSecret == "" {
			return nil, &ports.ProviderError{Provider: providerName, Kind: ports.ErrConfigurationMissing}
		}
		tokenURL := opts.TokenURL
		if tokenURL == "" {
			tokenURL = defaultTokenURL
		}
		tokens = NewTokenCache(&clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     tokenURL,
		}, opts.RefreshMargin, opts.Timeout)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: &oauth2.Transport{Source: tokens, Base: http.DefaultTransport},
	}

	c := NewClientWithBaseURL(httpClient, opts.BaseURL)
	if opts.Market != "" {
		c.market = opts.Market
	}
	c.maxRetries = opts.MaxRetries
	c.baseBackoff = opts.RetryBackoff
	c.metrics = opts.Metrics
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c, nil
}

// NewClientWithBaseURL builds a client around an existing HTTP client, which is
// expected to handle authentication itself. Tests point it at httptest servers.
func NewClientWithBaseURL(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		market:     defaultMarket,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		now:        time.Now,
	}
}
