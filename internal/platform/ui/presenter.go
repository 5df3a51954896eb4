// internal/platform/ui/presenter.go
package ui

import (
	"time"

	"github.com/thomsbe/slubjsonlinkcheck/internal/core/domain"
	"github.com/thomsbe/slubjsonlinkcheck/internal/core/ports"
)

// summaryRounding trims sub-millisecond noise from the elapsed time shown
// to the user.
const summaryRounding = time.Millisecond

// NoopPresenter discards all presentation calls. Used in tests and when
// output is fully suppressed.
type NoopPresenter struct{}

// NewNoopPresenter creates a presenter that produces no output.
func NewNoopPresenter() *NoopPresenter { return &NoopPresenter{} }

func (n *NoopPresenter) Start(info ports.RunInfo)                       {}
func (n *NoopPresenter) RecordCompleted()                               {}
func (n *NoopPresenter) ChunkCompleted(index, records int, total int64) {}
func (n *NoopPresenter) Info(msg string)                                {}
func (n *NoopPresenter) Warning(msg string)                             {}
func (n *NoopPresenter) Error(msg string)                               {}
func (n *NoopPresenter) Finish(summary domain.Summary)                  {}
func (n *NoopPresenter) Close() error                                   { return nil }
