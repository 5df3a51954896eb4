// internal/platform/logx/logx_test.go
package logx

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	logger := New()
	if logger == nil {
		t.Fatal("New() should return a logger, got nil")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DBG", LevelDebug},
		{"info", LevelInfo},
		{"", LevelInfo}, // empty defaults to Info
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"err", LevelError},
		{"ERROR", LevelError},
		{"  error  ", LevelError},
		{"invalid", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLevel(tt.input)
			if got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func newBufferLogger(lvl Level) (*simpleLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &simpleLogger{
		lvl: lvl,
		lg:  log.New(&buf, "", 0),
	}, &buf
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn)

	logger.Debug("debug line")
	logger.Info("info line")
	logger.Warn("warn line")

	out := buf.String()
	if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
		t.Errorf("lines below Warn should be suppressed, got %q", out)
	}
	if !strings.Contains(out, "warn line") {
		t.Errorf("warn line should be logged, got %q", out)
	}
}

func TestWithScope(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	scoped := logger.With("component", "merger")
	scoped.Info("merging", "chunks", 4)

	out := buf.String()
	if !strings.Contains(out, "component=merger") {
		t.Errorf("scoped pair missing from %q", out)
	}
	if !strings.Contains(out, "chunks=4") {
		t.Errorf("call pair missing from %q", out)
	}
}

func TestErrNilIsNoop(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	logger.Err(nil, "phase", "read")
	if buf.Len() != 0 {
		t.Errorf("Err(nil) should log nothing, got %q", buf.String())
	}

	logger.Err(errors.New("boom"), "phase", "read")
	out := buf.String()
	if !strings.Contains(out, "error=boom") || !strings.Contains(out, "phase=read") {
		t.Errorf("Err output missing fields: %q", out)
	}
}

func TestConcurrentLogging(t *testing.T) {
	logger, _ := newBufferLogger(LevelDebug)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Info("line", "n", n)
		}(i)
	}
	wg.Wait()
}
