// internal/core/usecases/runner.go
package usecases

import (
	"bufio"
	"context"
	"os"

	"github.com/thomsbe/slubjsonlinkcheck/internal/adapters/output"
	"github.com/thomsbe/slubjsonlinkcheck/internal/core/domain"
	"github.com/thomsbe/slubjsonlinkcheck/internal/core/ports"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/errors"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/logx"
)

// scratchDirPrefix names the temporary directory holding per-chunk scratch
// files for one run.
const scratchDirPrefix = "jsonlinkcheck_"

// RunnerOptions wires one pipeline run. Paths are opened by the runner so
// every I/O failure carries its stage.
type RunnerOptions struct {
	InputPath          string
	OutputPath         string
	TimeoutReportPath  string
	RedirectReportPath string

	Fields          []string
	ChunkSize       int
	Threads         int
	Concurrency     int
	DeleteTimeouts  bool
	FollowRedirects bool

	// CountLines pre-scans the input so the presenter can show a bounded
	// progress bar. Costs one extra pass over the file.
	CountLines bool

	Checker   ports.Checker
	Presenter ports.Presenter
	Logger    logx.Logger
}

// Runner orchestrates a full run: read, chunk, check, transform, merge,
// report.
type Runner struct {
	opts     RunnerOptions
	progress *Progress
	stats    *domain.Statistics
}

// NewRunner builds a runner. Zero or negative numeric options fall back to
// safe minimums.
func NewRunner(opts RunnerOptions) *Runner {
	if opts.ChunkSize < 1 {
		opts.ChunkSize = 1000
	}
	if opts.Threads < 1 {
		opts.Threads = 1
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Logger == nil {
		opts.Logger = logx.NewSilent()
	}
	if opts.OutputPath == "" {
		opts.OutputPath = output.DerivePath(opts.InputPath, "")
	}
	return &Runner{
		opts:     opts,
		progress: &Progress{},
		stats:    domain.NewStatistics(),
	}
}

// Progress returns the live counters for this run.
func (r *Runner) Progress() *Progress { return r.progress }

// Run executes the pipeline and returns the finalized summary. The output
// file is only complete when the returned error is nil.
func (r *Runner) Run(ctx context.Context) (domain.Summary, error) {
	var summary domain.Summary
	logger := r.opts.Logger

	in, err := os.Open(r.opts.InputPath)
	if err != nil {
		return summary, errors.Wrapf(errors.Join(errors.ErrIO, err), "opening input %s", r.opts.InputPath)
	}
	defer in.Close()

	totalLines := int64(-1)
	if r.opts.CountLines {
		totalLines, err = countLines(in)
		if err != nil {
			return summary, errors.Wrapf(errors.Join(errors.ErrIO, err), "counting lines in %s", r.opts.InputPath)
		}
		if _, err := in.Seek(0, 0); err != nil {
			return summary, errors.Wrapf(errors.Join(errors.ErrIO, err), "rewinding input %s", r.opts.InputPath)
		}
	}

	scratchDir, err := os.MkdirTemp("", scratchDirPrefix)
	if err != nil {
		return summary, errors.Wrap(errors.Join(errors.ErrIO, err), "creating scratch directory")
	}
	defer os.RemoveAll(scratchDir)

	if r.opts.Presenter != nil {
		r.opts.Presenter.Start(ports.RunInfo{
			Input:      r.opts.InputPath,
			Output:     r.opts.OutputPath,
			Fields:     r.opts.Fields,
			Threads:    r.opts.Threads,
			ChunkSize:  r.opts.ChunkSize,
			TotalLines: totalLines,
		})
	}

	transformer := NewTransformer(r.opts.Checker, r.stats, FieldPolicy{
		Fields:          r.opts.Fields,
		FollowRedirects: r.opts.FollowRedirects,
		DeleteTimeouts:  r.opts.DeleteTimeouts,
	}, logger)
	worker := NewChunkWorker(transformer, scratchDir, r.opts.Concurrency,
		r.stats, r.progress, r.opts.Presenter, logger)
	scheduler := NewScheduler(r.opts.ChunkSize, r.opts.Threads, r.progress, r.opts.Presenter, logger)

	outputs, totalChunks, err := scheduler.Run(ctx, in, worker)
	if err != nil {
		return summary, errors.Wrap(err, "processing input")
	}

	result, err := r.merge(outputs, totalChunks, logger)
	if err != nil {
		return summary, err
	}

	if r.opts.TimeoutReportPath != "" && len(result.Timeouts) > 0 {
		if err := output.WriteTimeoutReport(r.opts.TimeoutReportPath, result.Timeouts); err != nil {
			return summary, err
		}
		logger.Info("timeout report written",
			"path", r.opts.TimeoutReportPath, "urls", len(result.Timeouts))
	}
	if r.opts.RedirectReportPath != "" && len(result.Redirects) > 0 {
		if err := output.WriteRedirectReport(r.opts.RedirectReportPath, result.Redirects); err != nil {
			return summary, err
		}
		logger.Info("redirect report written",
			"path", r.opts.RedirectReportPath, "redirects", len(result.Redirects))
	}

	summary = r.stats.Snapshot()
	summary.LinesRead = r.progress.LinesRead()
	summary.RecordsWritten = result.Records

	if r.opts.Presenter != nil {
		r.opts.Presenter.Finish(summary)
	}
	return summary, nil
}

func (r *Runner) merge(outputs []domain.WorkerOutput, totalChunks int, logger logx.Logger) (MergeResult, error) {
	var res MergeResult

	out, err := os.Create(r.opts.OutputPath)
	if err != nil {
		return res, errors.Wrapf(errors.Join(errors.ErrIO, err), "creating output %s", r.opts.OutputPath)
	}
	buf := bufio.NewWriter(out)

	res, err = NewMerger(logger).Merge(outputs, totalChunks, buf)
	if err != nil {
		out.Close()
		return res, err
	}
	if err := buf.Flush(); err != nil {
		out.Close()
		return res, errors.Wrapf(errors.Join(errors.ErrIO, err), "writing output %s", r.opts.OutputPath)
	}
	if err := out.Close(); err != nil {
		return res, errors.Wrapf(errors.Join(errors.ErrIO, err), "closing output %s", r.opts.OutputPath)
	}
	return res, nil
}

func countLines(f *os.File) (int64, error) {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	var n int64
	for scanner.Scan() {
		n++
	}
	return n, scanner.Err()
}
