// internal/core/usecases/checker.go
package usecases

import (
	"context"
	"net/http"

	"github.com/thomsbe/slubjsonlinkcheck/internal/core/domain"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/httpclient"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/logx"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/validator"
)

// CheckerConfig tunes the reachability checker.
type CheckerConfig struct {
	// MaxAttempts is the number of tries for transient failures
	// (timeouts, connection errors, unexpected statuses).
	// Default: 3
	MaxAttempts int

	// FollowRedirects resolves 3xx answers to their final location. When
	// off, a redirect counts as reachable and the original URL is kept.
	FollowRedirects bool

	// MaxRedirectHops caps how many redirect hops are resolved.
	// Default: 5
	MaxRedirectHops int
}

// ReachabilityChecker performs live HTTP checks through the shared client.
// It issues HEAD first and falls back to GET when the server rejects the
// method. All instances may be invoked concurrently; the client bounds
// total outbound load globally.
type ReachabilityChecker struct {
	client *httpclient.Client
	cfg    CheckerConfig
	logger logx.Logger
}

// NewReachabilityChecker creates a checker over the shared HTTP client.
func NewReachabilityChecker(client *httpclient.Client, cfg CheckerConfig, logger logx.Logger) *ReachabilityChecker {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.MaxRedirectHops <= 0 {
		cfg.MaxRedirectHops = 5
	}
	if logger == nil {
		logger = logx.NewSilent()
	}

	return &ReachabilityChecker{
		client: client,
		cfg:    cfg,
		logger: logger.With("component", "checker"),
	}
}

// Check resolves one URL to an outcome. Transient failures are retried with
// exponential backoff; definitive statuses return immediately.
func (c *ReachabilityChecker) Check(ctx context.Context, url string) domain.Outcome {
	lastKind := domain.OutcomeNetworkError
	lastStatus := 0

	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := c.client.Backoff(ctx, attempt-1); err != nil {
				break // canceled: report what we saw last
			}
		}

		status, location, err := c.fetch(ctx, url)
		if err != nil {
			if httpclient.IsTimeoutErr(err) {
				lastKind = domain.OutcomeTimedOut
			} else {
				lastKind = domain.OutcomeNetworkError
			}
			c.logger.Debug("attempt failed",
				"url", url,
				"attempt", attempt+1,
				"max_attempts", c.cfg.MaxAttempts,
				"outcome", lastKind.String(),
			)
			continue
		}

		switch {
		case status >= 200 && status < 300:
			return domain.Outcome{Kind: domain.OutcomeValid, Status: status}

		case isRedirect(status):
			if !c.cfg.FollowRedirects {
				// Redirects count as reachable; the original URL stays.
				return domain.Outcome{Kind: domain.OutcomeValid, Status: status}
			}
			target := validator.ResolveReference(url, location)
			if target == "" {
				// Redirect without usable location still counts as reachable.
				return domain.Outcome{Kind: domain.OutcomeValid, Status: status}
			}
			final := c.followChain(ctx, target)
			return domain.Outcome{Kind: domain.OutcomeRedirected, Target: final, Status: status}

		case status == http.StatusNotFound || status == http.StatusGone:
			return domain.Outcome{Kind: domain.OutcomeNotFound, Status: status}

		default:
			// 5xx and anything unexpected: retry on the same backoff
			// schedule as timeouts, then give up as a network error.
			lastKind = domain.OutcomeNetworkError
			lastStatus = status
			c.logger.Debug("unexpected status",
				"url", url,
				"status", status,
				"attempt", attempt+1,
			)
		}
	}

	return domain.Outcome{Kind: lastKind, Status: lastStatus}
}

// fetch performs one request cycle: HEAD, with a GET fallback when the
// server does not support HEAD. Returns the status and the Location header.
func (c *ReachabilityChecker) fetch(ctx context.Context, url string) (int, string, error) {
	resp, err := c.client.Head(ctx, url)
	if err != nil {
		return 0, "", err
	}

	if resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented {
		httpclient.Drain(resp)
		resp, err = c.client.Get(ctx, url)
		if err != nil {
			return 0, "", err
		}
	}

	status := resp.StatusCode
	location := resp.Header.Get("Location")
	httpclient.Drain(resp)

	return status, location, nil
}

// followChain resolves consecutive redirects starting at target, up to the
// hop cap. Chain errors are not fatal: the last resolved target wins.
func (c *ReachabilityChecker) followChain(ctx context.Context, target string) string {
	current := target

	for hop := 1; hop < c.cfg.MaxRedirectHops; hop++ {
		status, location, err := c.fetch(ctx, current)
		if err != nil || !isRedirect(status) {
			return current
		}

		next := validator.ResolveReference(current, location)
		if next == "" {
			return current
		}
		current = next
	}

	return current
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, // 301
		http.StatusFound,             // 302
		http.StatusTemporaryRedirect, // 307
		http.StatusPermanentRedirect: // 308
		return true
	}
	return false
}
