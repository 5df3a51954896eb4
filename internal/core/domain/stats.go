// internal/core/domain/stats.go
package domain

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/validator"
)

// fieldCounters holds the per-field tallies. Individual counters are
// atomic so workers increment without locking each other out.
type fieldCounters struct {
	checked    atomic.Int64
	valid      atomic.Int64
	removed    atomic.Int64
	redirected atomic.Int64
	timedOut   atomic.Int64
}

// Statistics accumulates check results across all workers. Every mutation
// is safe for concurrent use; Snapshot finalizes an immutable view.
type Statistics struct {
	mu     sync.RWMutex
	fields map[string]*fieldCounters

	domMu   sync.Mutex
	domains map[string]int64

	parseErrors atomic.Int64
	started     time.Time
}

// NewStatistics creates an empty statistics accumulator and starts the
// elapsed-time clock.
func NewStatistics() *Statistics {
	return &Statistics{
		fields:  make(map[string]*fieldCounters),
		domains: make(map[string]int64),
		started: time.Now(),
	}
}

// Add records the outcome of one URL check against a field. The invariant
// checked == valid + removed + redirected + timed_out holds per field.
func (s *Statistics) Add(field, url string, kind OutcomeKind) {
	fc := s.counters(field)
	fc.checked.Add(1)

	switch kind {
	case OutcomeValid:
		fc.valid.Add(1)
	case OutcomeRedirected:
		fc.redirected.Add(1)
	case OutcomeTimedOut, OutcomeNetworkError:
		fc.timedOut.Add(1)
	default: // NotFound, InvalidSyntax
		fc.removed.Add(1)
	}

	if domain := validator.RegistrableDomain(url); domain != "" {
		s.domMu.Lock()
		s.domains[domain]++
		s.domMu.Unlock()
	}
}

// AddParseError counts one input line skipped as unparseable.
func (s *Statistics) AddParseError() {
	s.parseErrors.Add(1)
}

// ParseErrors returns the number of skipped lines so far.
func (s *Statistics) ParseErrors() int64 {
	return s.parseErrors.Load()
}

func (s *Statistics) counters(field string) *fieldCounters {
	s.mu.RLock()
	fc, ok := s.fields[field]
	s.mu.RUnlock()
	if ok {
		return fc
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if fc, ok = s.fields[field]; ok {
		return fc
	}
	fc = &fieldCounters{}
	s.fields[field] = fc
	return fc
}

// FieldSummary is the finalized counter set for one field.
type FieldSummary struct {
	Name       string
	Checked    int64
	Valid      int64
	Removed    int64
	Redirected int64
	TimedOut   int64
}

// DomainCount is one entry of the per-domain tally.
type DomainCount struct {
	Domain string
	Count  int64
}

// Summary is the immutable snapshot reported at the end of a run.
// LinesRead and RecordsWritten are filled in by the runner.
type Summary struct {
	Fields []FieldSummary

	TotalChecked    int64
	TotalValid      int64
	TotalRemoved    int64
	TotalRedirected int64
	TotalTimedOut   int64

	ParseErrors    int64
	TopDomains     []DomainCount
	Elapsed        time.Duration
	LinesRead      int64
	RecordsWritten int64
}

// topDomainCount limits the per-domain listing in the verbose summary.
const topDomainCount = 5

// Snapshot finalizes the accumulated counters. It must only be called after
// all workers are done.
func (s *Statistics) Snapshot() Summary {
	out := Summary{
		ParseErrors: s.parseErrors.Load(),
		Elapsed:     time.Since(s.started),
	}

	s.mu.RLock()
	for name, fc := range s.fields {
		fs := FieldSummary{
			Name:       name,
			Checked:    fc.checked.Load(),
			Valid:      fc.valid.Load(),
			Removed:    fc.removed.Load(),
			Redirected: fc.redirected.Load(),
			TimedOut:   fc.timedOut.Load(),
		}
		out.Fields = append(out.Fields, fs)

		out.TotalChecked += fs.Checked
		out.TotalValid += fs.Valid
		out.TotalRemoved += fs.Removed
		out.TotalRedirected += fs.Redirected
		out.TotalTimedOut += fs.TimedOut
	}
	s.mu.RUnlock()

	sort.Slice(out.Fields, func(i, j int) bool {
		return out.Fields[i].Name < out.Fields[j].Name
	})

	s.domMu.Lock()
	for domain, count := range s.domains {
		out.TopDomains = append(out.TopDomains, DomainCount{Domain: domain, Count: count})
	}
	s.domMu.Unlock()

	// Busiest domains first, ties alphabetically.
	sort.Slice(out.TopDomains, func(i, j int) bool {
		if out.TopDomains[i].Count != out.TopDomains[j].Count {
			return out.TopDomains[i].Count > out.TopDomains[j].Count
		}
		return out.TopDomains[i].Domain < out.TopDomains[j].Domain
	})
	if len(out.TopDomains) > topDomainCount {
		out.TopDomains = out.TopDomains[:topDomainCount]
	}

	return out
}
