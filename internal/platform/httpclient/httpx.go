// Package httpclient provides the shared HTTP client used for URL
// reachability checks: pooled connections, a global in-flight cap, optional
// rate limiting and context-aware exponential backoff.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/errors"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/logx"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/rate"
)

// Client wraps http.Client with the transport policy shared by all workers.
// A single Client is safe for concurrent use and must be shared across the
// run so the connection pool and the in-flight cap are global.
type Client struct {
	httpClient  *http.Client
	inflight    chan struct{}
	rateLimiter *rate.Limiter
	logger      logx.Logger
	config      Config
}

// Config holds the configuration for the HTTP client.
type Config struct {
	// Timeout is the per-request timeout duration.
	// Default: 10 seconds
	Timeout time.Duration

	// RetryBackoff is the initial backoff duration between retry attempts.
	// Backoff increases exponentially with each attempt.
	// Default: 1 second
	RetryBackoff time.Duration

	// MaxRetryBackoff caps the backoff duration between retries.
	// Default: 30 seconds
	MaxRetryBackoff time.Duration

	// UserAgent is the User-Agent header value.
	// Default: "jsonlinkcheck/1.0"
	UserAgent string

	// MaxInFlight bounds the number of concurrent outbound requests across
	// the whole run, independent of the worker count.
	// Default: 64
	MaxInFlight int

	// RateLimit is the maximum requests per second across the run.
	// 0 means no rate limiting.
	RateLimit float64

	// RateLimitBurst is the burst size for rate limiting.
	// Default: 1
	RateLimitBurst int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:         10 * time.Second,
		RetryBackoff:    1 * time.Second,
		MaxRetryBackoff: 30 * time.Second,
		UserAgent:       "jsonlinkcheck/1.0",
		MaxInFlight:     64,
		RateLimit:       0,
		RateLimitBurst:  1,
	}
}

// New creates a new HTTP client with the given configuration.
func New(config Config, logger logx.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = 1 * time.Second
	}
	if config.MaxRetryBackoff == 0 {
		config.MaxRetryBackoff = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "jsonlinkcheck/1.0"
	}
	if config.MaxInFlight <= 0 {
		config.MaxInFlight = 64
	}
	if config.RateLimitBurst == 0 {
		config.RateLimitBurst = 1
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxInFlight,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	httpClient := &http.Client{
		Timeout:   config.Timeout,
		Transport: transport,
		// Redirects are never followed by the transport; 3xx responses
		// surface to the caller, which owns hop-by-hop resolution.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	var rateLimiter *rate.Limiter
	if config.RateLimit > 0 {
		rateLimiter = rate.New(config.RateLimit, config.RateLimitBurst)
	}

	return &Client{
		httpClient:  httpClient,
		inflight:    make(chan struct{}, config.MaxInFlight),
		rateLimiter: rateLimiter,
		logger:      logger.With("component", "httpx"),
		config:      config,
	}
}

// Do performs a single HTTP request without retrying. The in-flight slot is
// held for the duration of the round trip.
func (c *Client) Do(ctx context.Context, method, url string) (*http.Response, error) {
	select {
	case c.inflight <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-c.inflight }()

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "rate limit wait failed")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request for %s %s", method, url)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.Debug("request failed",
			"method", method,
			"url", url,
			"error", err.Error(),
			"duration_ms", duration.Milliseconds(),
		)
		return nil, err
	}

	c.logger.Debug("response received",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"duration_ms", duration.Milliseconds(),
	)

	return resp, nil
}

// Head performs a HEAD request.
func (c *Client) Head(ctx context.Context, url string) (*http.Response, error) {
	return c.Do(ctx, http.MethodHead, url)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, url)
}

// Backoff sleeps for the exponential backoff duration of the given attempt,
// or returns early when the context is canceled.
func (c *Client) Backoff(ctx context.Context, attempt int) error {
	backoff := c.config.RetryBackoff * time.Duration(math.Pow(2, float64(attempt)))
	if backoff > c.config.MaxRetryBackoff {
		backoff = c.config.MaxRetryBackoff
	}

	c.logger.Debug("backing off before retry",
		"attempt", attempt+1,
		"backoff_ms", backoff.Milliseconds(),
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(backoff):
		return nil
	}
}

// Drain discards the remaining response body and closes it so the
// underlying connection can be reused.
func Drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}

// IsTimeoutErr reports whether a request error was caused by a timeout
// rather than a connection-level failure.
func IsTimeoutErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// String returns a human-readable representation of the client configuration.
func (c *Client) String() string {
	return fmt.Sprintf("HTTPClient{timeout=%s, max_in_flight=%d, rate_limit=%.1f/s}",
		c.config.Timeout,
		c.config.MaxInFlight,
		c.config.RateLimit,
	)
}
