// internal/platform/ui/log_presenter.go
package ui

import (
	"fmt"
	"strings"

	"github.com/thomsbe/slubjsonlinkcheck/internal/core/domain"
	"github.com/thomsbe/slubjsonlinkcheck/internal/core/ports"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/logx"
)

// LogPresenter reports progress through the structured logger. In verbose
// mode every completed chunk produces one line; otherwise only the final
// summary is logged.
type LogPresenter struct {
	logger  logx.Logger
	verbose bool
}

// NewLogPresenter creates a presenter writing to the given logger.
func NewLogPresenter(logger logx.Logger, verbose bool) *LogPresenter {
	if logger == nil {
		logger = logx.NewSilent()
	}
	return &LogPresenter{logger: logger, verbose: verbose}
}

func (p *LogPresenter) Start(info ports.RunInfo) {
	p.logger.Info("processing started",
		"input", info.Input,
		"output", info.Output,
		"fields", strings.Join(info.Fields, ","),
		"threads", info.Threads,
		"chunk_size", info.ChunkSize)
}

func (p *LogPresenter) RecordCompleted() {}

func (p *LogPresenter) ChunkCompleted(index, records int, totalRecords int64) {
	if !p.verbose {
		return
	}
	p.logger.Info("chunk done",
		"chunk", index,
		"records", records,
		"total", totalRecords)
}

func (p *LogPresenter) Info(msg string)    { p.logger.Info(msg) }
func (p *LogPresenter) Warning(msg string) { p.logger.Warn(msg) }
func (p *LogPresenter) Error(msg string)   { p.logger.Warn(msg) }

func (p *LogPresenter) Finish(summary domain.Summary) {
	p.logger.Info("processing finished",
		"lines", summary.LinesRead,
		"records", summary.RecordsWritten,
		"checked", summary.TotalChecked,
		"valid", summary.TotalValid,
		"removed", summary.TotalRemoved,
		"redirected", summary.TotalRedirected,
		"timed_out", summary.TotalTimedOut,
		"parse_errors", summary.ParseErrors,
		"elapsed", summary.Elapsed.Round(summaryRounding).String())

	if !p.verbose {
		return
	}
	for _, f := range summary.Fields {
		p.logger.Info("field summary",
			"field", f.Name,
			"checked", f.Checked,
			"valid", f.Valid,
			"removed", f.Removed,
			"redirected", f.Redirected,
			"timed_out", f.TimedOut)
	}
	for _, d := range summary.TopDomains {
		p.logger.Info("top domain",
			"domain", d.Domain,
			"checked", fmt.Sprintf("%d", d.Count))
	}
}

func (p *LogPresenter) Close() error { return nil }
