// internal/core/usecases/progress.go
package usecases

import "sync/atomic"

// Progress exposes the pipeline's live counters to the progress-reporting
// collaborator. All updates are atomic; readers get a consistent-enough
// view for rendering, never for control flow.
type Progress struct {
	linesRead        atomic.Int64
	chunksDispatched atomic.Int64
	chunksCompleted  atomic.Int64
	recordsDone      atomic.Int64
}

func (p *Progress) addLines(n int)   { p.linesRead.Add(int64(n)) }
func (p *Progress) chunkDispatched() { p.chunksDispatched.Add(1) }
func (p *Progress) chunkCompleted()  { p.chunksCompleted.Add(1) }
func (p *Progress) recordCompleted() { p.recordsDone.Add(1) }

// LinesRead returns the number of input lines read so far.
func (p *Progress) LinesRead() int64 { return p.linesRead.Load() }

// ChunksDispatched returns the number of chunks handed to workers.
func (p *Progress) ChunksDispatched() int64 { return p.chunksDispatched.Load() }

// ChunksCompleted returns the number of chunks fully processed.
func (p *Progress) ChunksCompleted() int64 { return p.chunksCompleted.Load() }

// RecordsDone returns the number of records fully processed.
func (p *Progress) RecordsDone() int64 { return p.recordsDone.Load() }
