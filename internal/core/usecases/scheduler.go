// internal/core/usecases/scheduler.go
package usecases

import (
	"bufio"
	"context"
	"io"
	"sync"

	"github.com/thomsbe/slubjsonlinkcheck/internal/core/domain"
	"github.com/thomsbe/slubjsonlinkcheck/internal/core/ports"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/errors"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/logx"
)

// maxLineSize bounds a single input line. Records larger than this are a
// malformed dataset, not a use case.
const maxLineSize = 16 * 1024 * 1024

// Scheduler reads the input lazily, groups lines into fixed-size chunks and
// fans them out to a bounded pool of workers. It never materializes the whole
// input in memory.
type Scheduler struct {
	chunkSize int
	workers   int
	progress  *Progress
	presenter ports.Presenter
	logger    logx.Logger
}

// NewScheduler builds a scheduler with the given chunk size and pool width.
func NewScheduler(chunkSize, workers int, progress *Progress, presenter ports.Presenter, logger logx.Logger) *Scheduler {
	if chunkSize < 1 {
		chunkSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logx.NewSilent()
	}
	return &Scheduler{
		chunkSize: chunkSize,
		workers:   workers,
		progress:  progress,
		presenter: presenter,
		logger:    logger.With("component", "scheduler"),
	}
}

// Run drives the chunk pipeline to completion. It returns every worker
// output plus the total number of chunks read from the input. The first
// fatal error cancels the run: in-flight chunks finish, no new chunk is
// dispatched.
func (s *Scheduler) Run(ctx context.Context, input io.Reader, worker *ChunkWorker) ([]domain.WorkerOutput, int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks := make(chan domain.Chunk)
	outputs := make(chan domain.WorkerOutput, s.workers)

	var (
		fatalOnce sync.Once
		fatalErr  error
	)
	fail := func(err error) {
		fatalOnce.Do(func() {
			fatalErr = err
			cancel()
		})
	}

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for chunk := range chunks {
				out, err := worker.Process(ctx, chunk)
				if err != nil {
					s.logger.Err(err, "chunk failed", "chunk", chunk.Index, "worker", id)
					fail(err)
					return
				}
				if s.progress != nil {
					s.progress.chunkCompleted()
				}
				outputs <- out
			}
		}(i)
	}

	var (
		totalChunks int
		readErr     error
	)
	go func() {
		defer close(chunks)
		totalChunks, readErr = s.dispatch(ctx, input, chunks)
		if readErr != nil {
			fail(readErr)
		}
	}()

	go func() {
		wg.Wait()
		close(outputs)
	}()

	var collected []domain.WorkerOutput
	var totalRecords int64
	for out := range outputs {
		totalRecords += int64(out.Records)
		collected = append(collected, out)
		if s.presenter != nil {
			s.presenter.ChunkCompleted(out.ChunkIndex, out.Records, totalRecords)
		}
	}

	if fatalErr != nil && !errors.Is(fatalErr, context.Canceled) {
		return collected, totalChunks, fatalErr
	}
	if err := ctx.Err(); err != nil {
		return collected, totalChunks, errors.Wrap(err, "run interrupted")
	}
	return collected, totalChunks, nil
}

// dispatch scans the input line by line and emits chunks. It returns the
// number of chunks emitted. Line bytes are copied because the scanner reuses
// its buffer.
func (s *Scheduler) dispatch(ctx context.Context, input io.Reader, chunks chan<- domain.Chunk) (int, error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var (
		index     int
		firstLine = 1
		lineNo    = 1
		lines     [][]byte
	)

	emit := func() bool {
		chunk := domain.Chunk{Index: index, FirstLine: firstLine, Lines: lines}
		select {
		case chunks <- chunk:
		case <-ctx.Done():
			return false
		}
		if s.progress != nil {
			s.progress.chunkDispatched()
		}
		index++
		firstLine = lineNo
		lines = nil
		return true
	}

	for scanner.Scan() {
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		lines = append(lines, line)
		lineNo++
		if s.progress != nil {
			s.progress.addLines(1)
		}
		if len(lines) >= s.chunkSize {
			if !emit() {
				return index, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return index, errors.Wrap(errors.Join(errors.ErrIO, err), "reading input")
	}
	if len(lines) > 0 {
		if !emit() {
			return index, nil
		}
	}
	return index, nil
}
