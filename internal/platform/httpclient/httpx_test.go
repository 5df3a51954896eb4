// internal/platform/httpclient/httpx_test.go
package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/logx"
	"github.com/thomsbe/slubjsonlinkcheck/internal/testutil"
)

func newTestClient(cfg Config) *Client {
	return New(cfg, logx.NewSilent())
}

func TestDoSetsUserAgent(t *testing.T) {
	var gotUA atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.UserAgent())
	}))
	defer srv.Close()

	client := newTestClient(Config{})
	resp, err := client.Get(context.Background(), srv.URL)
	testutil.AssertNoError(t, err, "get")
	Drain(resp)

	testutil.AssertEqual(t, gotUA.Load(), "jsonlinkcheck/1.0", "default user agent")
}

func TestRedirectsNotFollowedByTransport(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Location", "/elsewhere")
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	client := newTestClient(Config{})
	resp, err := client.Head(context.Background(), srv.URL)
	testutil.AssertNoError(t, err, "head")
	defer Drain(resp)

	testutil.AssertEqual(t, resp.StatusCode, http.StatusFound, "3xx surfaces to the caller")
	testutil.AssertEqual(t, resp.Header.Get("Location"), "/elsewhere", "location header available")
	testutil.AssertEqual(t, hits.Load(), int64(1), "exactly one request issued")
}

func TestInFlightCap(t *testing.T) {
	var current, peak atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		current.Add(-1)
	}))
	defer srv.Close()

	client := newTestClient(Config{MaxInFlight: 3})

	done := make(chan struct{})
	for i := 0; i < 12; i++ {
		go func() {
			resp, err := client.Get(context.Background(), srv.URL)
			if err == nil {
				Drain(resp)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 12; i++ {
		<-done
	}

	testutil.AssertTrue(t, peak.Load() <= 3, "concurrent requests stay under the cap")
}

func TestDoCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(Config{})
	_, err := client.Get(ctx, srv.URL)
	testutil.AssertError(t, err, "canceled before dispatch")
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	client := newTestClient(Config{
		RetryBackoff:    10 * time.Millisecond,
		MaxRetryBackoff: 25 * time.Millisecond,
	})

	start := time.Now()
	testutil.AssertNoError(t, client.Backoff(context.Background(), 0), "first backoff")
	first := time.Since(start)
	testutil.AssertTrue(t, first >= 10*time.Millisecond, "base delay honored")

	start = time.Now()
	testutil.AssertNoError(t, client.Backoff(context.Background(), 5), "capped backoff")
	capped := time.Since(start)
	testutil.AssertTrue(t, capped < 100*time.Millisecond, "cap keeps large attempts bounded")
}

func TestBackoffCanceled(t *testing.T) {
	client := newTestClient(Config{RetryBackoff: 10 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Backoff(ctx, 0)
	testutil.AssertError(t, err, "canceled backoff returns early")
}

type timeoutErr struct{}

func (timeoutErr) Error() string { return "deadline" }
func (timeoutErr) Timeout() bool { return true }

func TestIsTimeoutErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"wrapped deadline", errors.Join(errors.New("x"), context.DeadlineExceeded), true},
		{"net timeout", timeoutErr{}, true},
		{"plain error", errors.New("connection refused"), false},
		{"canceled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, IsTimeoutErr(tt.err), tt.want, "classification")
		})
	}
}

func TestRateLimitSpacesRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	client := newTestClient(Config{RateLimit: 50, RateLimitBurst: 1})

	start := time.Now()
	for i := 0; i < 4; i++ {
		resp, err := client.Get(context.Background(), srv.URL)
		testutil.AssertNoError(t, err, "get")
		Drain(resp)
	}
	elapsed := time.Since(start)

	// 4 requests at 50 rps with burst 1 need at least ~60ms of spacing.
	testutil.AssertTrue(t, elapsed >= 50*time.Millisecond, "limiter spaces requests")
}
