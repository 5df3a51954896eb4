// Package rate provides a token bucket limiter used to bound the rate of
// outbound URL checks across all workers.
package rate

import (
	"context"
	"sync"
	"time"
)

// Limiter implements a token bucket. Wait blocks until a token is available,
// Allow consumes one without blocking.
type Limiter struct {
	rate   float64 // tokens per second
	burst  int     // bucket capacity
	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// New creates a limiter that refills at rate tokens per second and holds at
// most burst tokens. The bucket starts full.
func New(rate float64, burst int) *Limiter {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = 1
	}

	return &Limiter{
		rate:   rate,
		burst:  burst,
		tokens: float64(burst),
		last:   time.Now(),
	}
}

// Wait blocks until the limiter allows an operation to proceed or the context
// is canceled.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}

		waitTime := l.waitDuration()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

// Allow reports whether an operation can proceed immediately, consuming one
// token if available.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())

	if l.tokens >= 1 {
		l.tokens--
		return true
	}

	return false
}

// Tokens returns the current number of available tokens.
func (l *Limiter) Tokens() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())
	return l.tokens
}

// advance refills tokens for the elapsed time. Must be called with l.mu held.
func (l *Limiter) advance(now time.Time) {
	elapsed := now.Sub(l.last).Seconds()

	l.tokens += elapsed * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}

	l.last = now
}

// waitDuration calculates how long to wait for the next token.
func (l *Limiter) waitDuration() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())

	if l.tokens >= 1 {
		return 0
	}

	tokensNeeded := 1.0 - l.tokens
	secondsNeeded := tokensNeeded / l.rate

	return time.Duration(secondsNeeded * float64(time.Second))
}
