// internal/core/usecases/scheduler_test.go
package usecases

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/thomsbe/slubjsonlinkcheck/internal/core/domain"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/errors"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/logx"
	"github.com/thomsbe/slubjsonlinkcheck/internal/testutil"
)

func TestSchedulerChunksInput(t *testing.T) {
	tests := []struct {
		name       string
		lines      int
		chunkSize  int
		wantChunks int
	}{
		{"exact multiple", 10, 5, 2},
		{"remainder chunk", 11, 5, 3},
		{"single chunk", 3, 100, 1},
		{"chunk per line", 3, 1, 3},
		{"empty input", 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			for i := 0; i < tt.lines; i++ {
				fmt.Fprintf(&sb, "{\"id\":\"%d\"}\n", i)
			}

			progress := &Progress{}
			stats := domain.NewStatistics()
			transformer := NewTransformer(allValidChecker, stats, FieldPolicy{Fields: []string{"url"}}, logx.NewSilent())
			worker := NewChunkWorker(transformer, t.TempDir(), 1, stats, progress, nil, logx.NewSilent())
			scheduler := NewScheduler(tt.chunkSize, 2, progress, nil, logx.NewSilent())

			outputs, totalChunks, err := scheduler.Run(context.Background(), strings.NewReader(sb.String()), worker)

			testutil.AssertNoError(t, err, "run")
			testutil.AssertEqual(t, totalChunks, tt.wantChunks, "chunk count")
			testutil.AssertEqual(t, len(outputs), tt.wantChunks, "one output per chunk")
			testutil.AssertEqual(t, progress.LinesRead(), int64(tt.lines), "lines counted")

			records := 0
			for _, out := range outputs {
				records += out.Records
			}
			testutil.AssertEqual(t, records, tt.lines, "every line processed")
		})
	}
}

func TestSchedulerStopsOnWorkerFailure(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&sb, "{\"id\":\"%d\"}\n", i)
	}

	progress := &Progress{}
	stats := domain.NewStatistics()
	transformer := NewTransformer(allValidChecker, stats, FieldPolicy{Fields: []string{"url"}}, logx.NewSilent())
	// Scratch dir does not exist, so every chunk fails.
	worker := NewChunkWorker(transformer, "/nonexistent/scratch/dir", 1, stats, progress, nil, logx.NewSilent())
	scheduler := NewScheduler(10, 2, progress, nil, logx.NewSilent())

	_, _, err := scheduler.Run(context.Background(), strings.NewReader(sb.String()), worker)

	testutil.AssertError(t, err, "worker failure is fatal")
	testutil.AssertTrue(t, errors.IsIO(err), "classified as i/o failure")
}

func TestSchedulerHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sb strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&sb, "{\"id\":\"%d\"}\n", i)
	}

	progress := &Progress{}
	stats := domain.NewStatistics()
	transformer := NewTransformer(allValidChecker, stats, FieldPolicy{Fields: []string{"url"}}, logx.NewSilent())
	worker := NewChunkWorker(transformer, t.TempDir(), 1, stats, progress, nil, logx.NewSilent())
	scheduler := NewScheduler(5, 2, progress, nil, logx.NewSilent())

	_, _, err := scheduler.Run(ctx, strings.NewReader(sb.String()), worker)

	testutil.AssertError(t, err, "canceled run reports an error")
}
