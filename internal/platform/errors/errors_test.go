package errors

import (
	"fmt"
	"testing"

	"github.com/thomsbe/slubjsonlinkcheck/internal/testutil"
)

func TestWrap(t *testing.T) {
	t.Run("wraps error with context", func(t *testing.T) {
		baseErr := New("base error")
		wrapped := Wrap(baseErr, "additional context")

		testutil.AssertNotNil(t, wrapped, "wrapped error should not be nil")
		testutil.AssertTrue(t, Is(wrapped, baseErr), "should be able to unwrap to base error")
		testutil.AssertEqual(t, wrapped.Error(), "additional context: base error", "error message should include context")
	})

	t.Run("returns nil when wrapping nil", func(t *testing.T) {
		wrapped := Wrap(nil, "context")
		testutil.AssertTrue(t, wrapped == nil, "wrapping nil should return nil")
	})

	t.Run("multiple wraps preserve chain", func(t *testing.T) {
		baseErr := New("base")
		wrapped1 := Wrap(baseErr, "layer 1")
		wrapped2 := Wrap(wrapped1, "layer 2")

		testutil.AssertTrue(t, Is(wrapped2, baseErr), "should unwrap to base error")
		testutil.AssertEqual(t, wrapped2.Error(), "layer 2: layer 1: base", "should show full chain")
	})
}

func TestWrapf(t *testing.T) {
	t.Run("wraps error with formatted context", func(t *testing.T) {
		baseErr := New("base error")
		wrapped := Wrapf(baseErr, "failed for line=%d", 42)

		testutil.AssertTrue(t, Is(wrapped, baseErr), "should be able to unwrap to base error")
		testutil.AssertEqual(t, wrapped.Error(), "failed for line=42: base error", "error message should include formatted context")
	})

	t.Run("returns nil when wrapping nil", func(t *testing.T) {
		wrapped := Wrapf(nil, "context %s", "test")
		testutil.AssertTrue(t, wrapped == nil, "wrapping nil should return nil")
	})
}

func TestIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{name: "matches sentinel error", err: ErrTimeout, target: ErrTimeout, want: true},
		{name: "matches wrapped sentinel error", err: Wrap(ErrTimeout, "checking url"), target: ErrTimeout, want: true},
		{name: "does not match different error", err: ErrTimeout, target: ErrNetwork, want: false},
		{name: "nil does not match", err: nil, target: ErrTimeout, want: false},
		{name: "deeply wrapped io error", err: Wrap(Wrap(ErrIO, "write"), "merge"), target: ErrIO, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, Is(tt.err, tt.target), tt.want, "Is result")
		})
	}
}

func TestSentinelHelpers(t *testing.T) {
	tests := []struct {
		name  string
		check func(error) bool
		err   error
	}{
		{"IsParse", IsParse, ErrParse},
		{"IsValidation", IsValidation, ErrValidation},
		{"IsNetwork", IsNetwork, ErrNetwork},
		{"IsTimeout", IsTimeout, ErrTimeout},
		{"IsIO", IsIO, ErrIO},
		{"IsWorkerFailure", IsWorkerFailure, ErrWorkerFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertTrue(t, tt.check(tt.err), "helper should match its sentinel")
			testutil.AssertTrue(t, tt.check(Wrapf(tt.err, "stage %s", "check")), "helper should match wrapped sentinel")
			testutil.AssertFalse(t, tt.check(New("other")), "helper should not match unrelated error")
		})
	}
}

func TestJoin(t *testing.T) {
	err1 := New("first")
	err2 := New("second")
	joined := Join(err1, nil, err2)

	testutil.AssertTrue(t, Is(joined, err1), "joined error should match first")
	testutil.AssertTrue(t, Is(joined, err2), "joined error should match second")
}

func TestErrorf(t *testing.T) {
	err := Errorf("chunk %d missing", 7)
	testutil.AssertEqual(t, err.Error(), fmt.Sprintf("chunk %d missing", 7), "Errorf message")
}
