// internal/core/ports/presenter.go
package ports

import (
	"github.com/thomsbe/slubjsonlinkcheck/internal/core/domain"
)

// RunInfo carries the initial run parameters to the presenter.
type RunInfo struct {
	Input      string
	Output     string
	Fields     []string
	Threads    int
	ChunkSize  int
	TotalLines int64 // -1 when unknown (line counting only happens in visual mode)
}

// Presenter renders pipeline progress and the final summary. Implementations
// must tolerate concurrent RecordCompleted and ChunkCompleted calls from
// multiple workers.
type Presenter interface {
	// Start begins the presentation with the run parameters.
	Start(info RunInfo)

	// RecordCompleted notifies that one record finished processing.
	RecordCompleted()

	// ChunkCompleted notifies that a whole chunk finished processing.
	ChunkCompleted(index, records int, totalRecords int64)

	// Info shows an informational message.
	Info(msg string)

	// Warning shows a warning.
	Warning(msg string)

	// Error shows an error.
	Error(msg string)

	// Finish ends the presentation with the finalized statistics.
	Finish(summary domain.Summary)

	// Close releases presenter resources.
	Close() error
}
