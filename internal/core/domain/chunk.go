// internal/core/domain/chunk.go
package domain

// Chunk is one ordered batch of raw input lines, the unit of work handed to
// a single worker. Index is monotonic in input order; FirstLine is the
// 1-based line number of the first entry, for diagnostics.
type Chunk struct {
	Index     int
	FirstLine int
	Lines     [][]byte
}

// WorkerOutput is everything one worker produced for one chunk: the scratch
// file holding its ordered output lines plus the events gathered while
// transforming. The merger owns it after the worker returns.
type WorkerOutput struct {
	ChunkIndex  int
	ScratchPath string
	Records     int // records written to the scratch file
	ParseErrors int // input lines skipped as unparseable
	Timeouts    []string
	Redirects   []Redirect
}
