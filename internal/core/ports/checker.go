// internal/core/ports/checker.go
package ports

import (
	"context"

	"github.com/thomsbe/slubjsonlinkcheck/internal/core/domain"
)

// Checker decides whether one URL is reachable. Implementations must be
// safe for concurrent use from any number of workers; the transformer never
// retries on its own, so retry and backoff belong behind this interface.
type Checker interface {
	Check(ctx context.Context, url string) domain.Outcome
}

// CheckerFunc adapts a function to the Checker interface, mostly for tests.
type CheckerFunc func(ctx context.Context, url string) domain.Outcome

func (f CheckerFunc) Check(ctx context.Context, url string) domain.Outcome {
	return f(ctx, url)
}
