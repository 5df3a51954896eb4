// internal/core/usecases/worker_test.go
package usecases

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/thomsbe/slubjsonlinkcheck/internal/core/domain"
	"github.com/thomsbe/slubjsonlinkcheck/internal/core/ports"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/errors"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/logx"
	"github.com/thomsbe/slubjsonlinkcheck/internal/testutil"
)

func newTestWorker(t *testing.T, checker ports.Checker, scratchDir string, concurrency int) (*ChunkWorker, *domain.Statistics) {
	t.Helper()
	stats := domain.NewStatistics()
	transformer := NewTransformer(checker, stats, FieldPolicy{Fields: []string{"url"}}, logx.NewSilent())
	worker := NewChunkWorker(transformer, scratchDir, concurrency, stats, &Progress{}, nil, logx.NewSilent())
	return worker, stats
}

func chunkOf(index int, lines ...string) domain.Chunk {
	raw := make([][]byte, len(lines))
	for i, l := range lines {
		raw[i] = []byte(l)
	}
	return domain.Chunk{Index: index, FirstLine: 1, Lines: raw}
}

func TestProcessWritesScratchInOrder(t *testing.T) {
	// A checker with per-URL delays inverse to position: later lines finish
	// first, yet the scratch file must keep input order.
	checker := ports.CheckerFunc(func(ctx context.Context, url string) domain.Outcome {
		if strings.HasSuffix(url, "/0") {
			time.Sleep(30 * time.Millisecond)
		}
		return domain.Outcome{Kind: domain.OutcomeValid, Status: 200}
	})

	dir := t.TempDir()
	worker, _ := newTestWorker(t, checker, dir, 4)

	var lines []string
	for i := 0; i < 5; i++ {
		lines = append(lines, fmt.Sprintf(`{"id":"%d","url":"https://example.com/%d"}`, i, i))
	}

	out, err := worker.Process(context.Background(), chunkOf(3, lines...))
	testutil.AssertNoError(t, err, "process")
	testutil.AssertEqual(t, out.ChunkIndex, 3, "chunk index carried")
	testutil.AssertEqual(t, out.Records, 5, "record count")
	testutil.AssertEqual(t, filepath.Base(out.ScratchPath), "chunk_00003.jsonl", "scratch naming")

	data, err := os.ReadFile(out.ScratchPath)
	testutil.AssertNoError(t, err, "reading scratch")
	got := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	for i := range lines {
		testutil.AssertEqual(t, got[i], lines[i], fmt.Sprintf("line %d", i))
	}
}

func TestProcessSkipsBadLines(t *testing.T) {
	dir := t.TempDir()
	worker, stats := newTestWorker(t, allValidChecker, dir, 2)

	out, err := worker.Process(context.Background(), chunkOf(0,
		`{"url":"https://example.com/1"}`,
		`garbage`,
		``,
		`{"url":"https://example.com/2"}`,
	))

	testutil.AssertNoError(t, err, "bad lines are not fatal")
	testutil.AssertEqual(t, out.Records, 2, "surviving records")
	testutil.AssertEqual(t, out.ParseErrors, 2, "skipped lines counted")
	testutil.AssertEqual(t, stats.ParseErrors(), int64(2), "shared counter updated")
}

func TestProcessFailsOnBadScratchDir(t *testing.T) {
	worker, _ := newTestWorker(t, allValidChecker, "/nonexistent/scratch/dir", 1)

	_, err := worker.Process(context.Background(), chunkOf(0, `{"url":"https://example.com/"}`))

	testutil.AssertError(t, err, "unwritable scratch dir is fatal")
	testutil.AssertTrue(t, errors.IsIO(err), "classified as i/o failure")
}

func TestProcessEmptyChunk(t *testing.T) {
	dir := t.TempDir()
	worker, _ := newTestWorker(t, allValidChecker, dir, 1)

	out, err := worker.Process(context.Background(), chunkOf(7))
	testutil.AssertNoError(t, err, "empty chunk")
	testutil.AssertEqual(t, out.Records, 0, "no records")

	data, err := os.ReadFile(out.ScratchPath)
	testutil.AssertNoError(t, err, "scratch still created")
	testutil.AssertEqual(t, len(data), 0, "scratch empty")
}
