// internal/core/usecases/worker.go
package usecases

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/thomsbe/slubjsonlinkcheck/internal/core/domain"
	"github.com/thomsbe/slubjsonlinkcheck/internal/core/ports"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/errors"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/logx"
)

// scratchPattern names per-chunk scratch files inside the run's temp
// directory. The zero-padded index keeps lexical and numeric order aligned.
const scratchPattern = "chunk_%05d.jsonl"

// ChunkWorker processes one chunk at a time: it parses each line, transforms
// the record and writes the surviving records to a scratch file in input
// order. Lines that are not valid JSON are dropped and counted, never fatal.
type ChunkWorker struct {
	transformer *Transformer
	scratchDir  string
	concurrency int
	stats       *domain.Statistics
	progress    *Progress
	presenter   ports.Presenter
	logger      logx.Logger
}

// NewChunkWorker builds a worker writing scratch files into scratchDir.
// concurrency bounds the in-flight records within a single chunk.
func NewChunkWorker(
	transformer *Transformer,
	scratchDir string,
	concurrency int,
	stats *domain.Statistics,
	progress *Progress,
	presenter ports.Presenter,
	logger logx.Logger,
) *ChunkWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = logx.NewSilent()
	}
	return &ChunkWorker{
		transformer: transformer,
		scratchDir:  scratchDir,
		concurrency: concurrency,
		stats:       stats,
		progress:    progress,
		presenter:   presenter,
		logger:      logger.With("component", "worker"),
	}
}

// Process transforms every line of the chunk and persists the result. The
// returned WorkerOutput carries the scratch path plus the events collected
// while checking URLs. An error is returned only for scratch I/O failures.
func (w *ChunkWorker) Process(ctx context.Context, chunk domain.Chunk) (domain.WorkerOutput, error) {
	out := domain.WorkerOutput{ChunkIndex: chunk.Index}

	results := make([][]byte, len(chunk.Lines))
	events := make([]Events, len(chunk.Lines))
	parseErrs := make([]bool, len(chunk.Lines))

	sem := make(chan struct{}, w.concurrency)
	var wg sync.WaitGroup

	for i, line := range chunk.Lines {
		select {
		case <-ctx.Done():
			wg.Wait()
			return out, errors.Wrap(ctx.Err(), "chunk processing interrupted")
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, line []byte) {
			defer wg.Done()
			defer func() { <-sem }()

			rec, err := domain.ParseRecord(line)
			if err != nil {
				parseErrs[i] = true
				w.stats.AddParseError()
				w.logger.Warn("skipping invalid line",
					"line", chunk.FirstLine+i,
					"error", err.Error())
				w.finishRecord()
				return
			}

			ev := w.transformer.Transform(ctx, rec)
			results[i] = rec.Serialize()
			events[i] = ev
			w.finishRecord()
		}(i, line)
	}

	wg.Wait()

	for i := range chunk.Lines {
		if parseErrs[i] {
			out.ParseErrors++
			continue
		}
		out.Records++
		out.Timeouts = append(out.Timeouts, events[i].Timeouts...)
		out.Redirects = append(out.Redirects, events[i].Redirects...)
	}

	path := filepath.Join(w.scratchDir, fmt.Sprintf(scratchPattern, chunk.Index))
	if err := writeScratch(path, results); err != nil {
		return out, errors.Wrapf(errors.Join(errors.ErrIO, err),
			"writing scratch file for chunk %d", chunk.Index)
	}
	out.ScratchPath = path

	return out, nil
}

func (w *ChunkWorker) finishRecord() {
	if w.progress != nil {
		w.progress.recordCompleted()
	}
	if w.presenter != nil {
		w.presenter.RecordCompleted()
	}
}

func writeScratch(path string, lines [][]byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	buf := bufio.NewWriter(f)
	for _, line := range lines {
		if line == nil {
			continue
		}
		if _, err := buf.Write(line); err != nil {
			f.Close()
			return err
		}
		if err := buf.WriteByte('\n'); err != nil {
			f.Close()
			return err
		}
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
