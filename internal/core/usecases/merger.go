// internal/core/usecases/merger.go
package usecases

import (
	"io"
	"os"
	"sort"

	"github.com/thomsbe/slubjsonlinkcheck/internal/core/domain"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/errors"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/logx"
)

// MergeResult aggregates what the merger assembled from all chunks.
type MergeResult struct {
	Records     int64
	ParseErrors int64
	Timeouts    []string
	Redirects   []domain.Redirect
}

// Merger concatenates per-chunk scratch files into the final output in chunk
// index order. A missing chunk means a worker died without reporting, which
// would silently drop data, so the merge refuses to proceed.
type Merger struct {
	logger logx.Logger
}

// NewMerger builds a merger.
func NewMerger(logger logx.Logger) *Merger {
	if logger == nil {
		logger = logx.NewSilent()
	}
	return &Merger{logger: logger.With("component", "merger")}
}

// Merge writes all scratch files to out in chunk order and returns the
// aggregated events. totalChunks is the number of chunks the scheduler
// dispatched; outputs must cover exactly the indices 0..totalChunks-1.
func (m *Merger) Merge(outputs []domain.WorkerOutput, totalChunks int, out io.Writer) (MergeResult, error) {
	var res MergeResult

	byIndex := make(map[int]domain.WorkerOutput, len(outputs))
	for _, o := range outputs {
		byIndex[o.ChunkIndex] = o
	}
	for i := 0; i < totalChunks; i++ {
		if _, ok := byIndex[i]; !ok {
			return res, errors.Wrapf(errors.ErrWorkerFailure, "chunk %d missing from merge set", i)
		}
	}

	sorted := make([]domain.WorkerOutput, len(outputs))
	copy(sorted, outputs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ChunkIndex < sorted[j].ChunkIndex })

	for _, o := range sorted {
		if err := appendScratch(out, o.ScratchPath); err != nil {
			return res, errors.Wrapf(errors.Join(errors.ErrIO, err),
				"merging chunk %d", o.ChunkIndex)
		}
		res.Records += int64(o.Records)
		res.ParseErrors += int64(o.ParseErrors)
		res.Timeouts = append(res.Timeouts, o.Timeouts...)
		res.Redirects = append(res.Redirects, o.Redirects...)
		m.logger.Debug("chunk merged", "chunk", o.ChunkIndex, "records", o.Records)
	}

	return res, nil
}

func appendScratch(out io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(out, f)
	return err
}
