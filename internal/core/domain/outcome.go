// internal/core/domain/outcome.go
package domain

import "fmt"

// OutcomeKind classifies the result of attempting to reach one URL.
type OutcomeKind int

const (
	// OutcomeValid: the URL is syntactically valid and reachable.
	OutcomeValid OutcomeKind = iota
	// OutcomeRedirected: the URL answered with a redirect and a final
	// location was resolved.
	OutcomeRedirected
	// OutcomeNotFound: the server reports the resource is gone (404/410).
	OutcomeNotFound
	// OutcomeTimedOut: every attempt exceeded the request timeout.
	OutcomeTimedOut
	// OutcomeInvalidSyntax: the value is not an absolute http(s) URL.
	OutcomeInvalidSyntax
	// OutcomeNetworkError: connection failure or unexpected status after
	// all retries.
	OutcomeNetworkError
)

// String returns the lowercase name of the kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeValid:
		return "valid"
	case OutcomeRedirected:
		return "redirected"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeInvalidSyntax:
		return "invalid_syntax"
	case OutcomeNetworkError:
		return "network_error"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is the classified result of one URL check. Target is set only for
// OutcomeRedirected; Status carries the last HTTP status when one was seen.
type Outcome struct {
	Kind   OutcomeKind
	Target string
	Status int
}

// Transient reports whether the outcome is a timeout-class result, which
// the field policy treats identically for retention purposes.
func (o Outcome) Transient() bool {
	return o.Kind == OutcomeTimedOut || o.Kind == OutcomeNetworkError
}

// Redirect is one rewritten URL pair, reported in the redirect report as
// "source;target".
type Redirect struct {
	Source string
	Target string
}
