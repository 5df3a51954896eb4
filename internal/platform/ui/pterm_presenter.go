// internal/platform/ui/pterm_presenter.go
package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pterm/pterm"

	"github.com/thomsbe/slubjsonlinkcheck/internal/core/domain"
	"github.com/thomsbe/slubjsonlinkcheck/internal/core/ports"
)

// PTermPresenter renders a live progress bar plus a formatted summary. It
// owns the terminal for the duration of the run, so structured logging
// should be silenced while it is active.
type PTermPresenter struct {
	mu      sync.Mutex
	bar     *pterm.ProgressbarPrinter
	bounded bool
}

// NewPTermPresenter creates a visual presenter.
func NewPTermPresenter() *PTermPresenter {
	return &PTermPresenter{}
}

// Start prints the run header and starts the progress bar. With an unknown
// line total the bar still renders, counting up without a percentage.
func (p *PTermPresenter) Start(info ports.RunInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("jsonlinkcheck")

	infoPanel := pterm.DefaultBox.
		WithTitle("Run Configuration").
		WithTitleTopCenter().
		WithRightPadding(2).
		WithLeftPadding(2).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan))

	content := fmt.Sprintf("Input:  %s\n", pterm.Cyan(info.Input))
	content += fmt.Sprintf("Output: %s\n", pterm.Cyan(info.Output))
	content += fmt.Sprintf("Fields: %s\n", pterm.Yellow(strings.Join(info.Fields, ", ")))
	content += fmt.Sprintf("Threads: %s  Chunk size: %s",
		pterm.Yellow(fmt.Sprintf("%d", info.Threads)),
		pterm.Yellow(fmt.Sprintf("%d", info.ChunkSize)))
	infoPanel.Println(content)
	pterm.Println()

	total := int(info.TotalLines)
	p.bounded = total >= 0
	if !p.bounded {
		total = 0
	}
	bar, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Checking records").
		WithShowCount(p.bounded).
		WithShowPercentage(p.bounded).
		Start()
	p.bar = bar
}

// RecordCompleted advances the bar by one record.
func (p *PTermPresenter) RecordCompleted() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Increment()
	}
}

func (p *PTermPresenter) ChunkCompleted(index, records int, total int64) {}

func (p *PTermPresenter) Info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pterm.Info.Println(msg)
}

func (p *PTermPresenter) Warning(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pterm.Warning.Println(msg)
}

func (p *PTermPresenter) Error(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pterm.Error.Println(msg)
}

// Finish stops the bar and prints the statistics panel plus per-field and
// per-domain tables.
func (p *PTermPresenter) Finish(summary domain.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.Stop()
		p.bar = nil
	}

	pterm.Println()
	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgGreen)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("Processing Completed")
	pterm.Println()

	statsPanel := pterm.DefaultBox.
		WithTitle("Statistics").
		WithTitleTopCenter().
		WithRightPadding(2).
		WithLeftPadding(2).
		WithBoxStyle(pterm.NewStyle(pterm.FgGreen))

	content := fmt.Sprintf("Duration: %s\n", pterm.Green(summary.Elapsed.Round(summaryRounding).String()))
	content += fmt.Sprintf("Lines read: %s\n", pterm.Cyan(fmt.Sprintf("%d", summary.LinesRead)))
	content += fmt.Sprintf("Records written: %s\n", pterm.Cyan(fmt.Sprintf("%d", summary.RecordsWritten)))
	content += fmt.Sprintf("URLs checked: %s\n", pterm.Cyan(fmt.Sprintf("%d", summary.TotalChecked)))
	content += fmt.Sprintf("Valid: %s  Redirected: %s  Removed: %s  Timed out: %s",
		pterm.Green(fmt.Sprintf("%d", summary.TotalValid)),
		pterm.Yellow(fmt.Sprintf("%d", summary.TotalRedirected)),
		pterm.Red(fmt.Sprintf("%d", summary.TotalRemoved)),
		pterm.Red(fmt.Sprintf("%d", summary.TotalTimedOut)))
	if summary.ParseErrors > 0 {
		content += fmt.Sprintf("\nSkipped lines: %s", pterm.Red(fmt.Sprintf("%d", summary.ParseErrors)))
	}
	statsPanel.Println(content)

	if len(summary.Fields) > 0 {
		pterm.Println()
		pterm.DefaultSection.WithLevel(2).Println("Per Field")

		table := pterm.TableData{
			{"Field", "Checked", "Valid", "Redirected", "Removed", "Timed out"},
		}
		for _, f := range summary.Fields {
			table = append(table, []string{
				f.Name,
				fmt.Sprintf("%d", f.Checked),
				fmt.Sprintf("%d", f.Valid),
				fmt.Sprintf("%d", f.Redirected),
				fmt.Sprintf("%d", f.Removed),
				fmt.Sprintf("%d", f.TimedOut),
			})
		}
		pterm.DefaultTable.WithHasHeader().WithData(table).Render()
	}

	if len(summary.TopDomains) > 0 {
		pterm.Println()
		pterm.DefaultSection.WithLevel(2).Println("Top Domains")

		table := pterm.TableData{
			{"Domain", "URLs"},
		}
		for _, d := range summary.TopDomains {
			table = append(table, []string{d.Domain, fmt.Sprintf("%d", d.Count)})
		}
		pterm.DefaultTable.WithHasHeader().WithData(table).Render()
	}
}

// Close stops any progress bar still running.
func (p *PTermPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Stop()
		p.bar = nil
	}
	return nil
}
