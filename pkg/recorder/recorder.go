// Package recorder collects findings from concurrent category testers into
// one append-only list, deduplicates repeats, and forwards each accepted
// finding to optional sinks. Sinks are fire-and-forget: a broken exporter
// never fails a scan.
package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spaolacci/murmur3"

	"github.com/vantascan/vantascan/pkg/finding"
)

// Sink receives accepted findings. Implementations must be safe for
// concurrent use; errors are logged and dropped.
type Sink interface {
	LogFinding(ctx context.Context, f finding.Finding) error
}

// Recorder is safe for concurrent writers.
type Recorder struct {
	log   *slog.Logger
	sinks []Sink

	mu       sync.Mutex
	findings []finding.Finding
	seen     map[uint64]struct{}
}

// New builds a recorder forwarding to the given sinks.
func New(log *slog.Logger, sinks ...Sink) *Recorder {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Recorder{
		log:   log,
		sinks: sinks,
		seen:  make(map[uint64]struct{}),
	}
}

// Record appends f unless an identical finding (same target, parameter,
// category and technique) was already recorded. It assigns the ID and
// timestamp, forwards to sinks, and reports whether f was accepted.
func (r *Recorder) Record(ctx context.Context, f finding.Finding) bool {
	key := dedupKey(f)

	r.mu.Lock()
	if _, dup := r.seen[key]; dup {
		r.mu.Unlock()
		return false
	}
	r.seen[key] = struct{}{}

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.DetectedAt.IsZero() {
		f.DetectedAt = time.Now().UTC()
	}
	r.findings = append(r.findings, f)
	r.mu.Unlock()

	for _, s := range r.sinks {
		if err := s.LogFinding(ctx, f); err != nil {
			r.log.Warn("finding sink failed", "sink_error", err, "finding", f.ID)
		}
	}
	return true
}

// Findings returns a copy of everything recorded so far. Safe to call
// while writers are still active, which is how cancelled scans surface
// their partial results.
func (r *Recorder) Findings() []finding.Finding {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]finding.Finding, len(r.findings))
	copy(out, r.findings)
	return out
}

// Len returns the number of accepted findings.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.findings)
}

func dedupKey(f finding.Finding) uint64 {
	h := murmur3.New64()
	h.Write([]byte(f.Target))
	h.Write([]byte{0})
	h.Write([]byte(f.Parameter))
	h.Write([]byte{0})
	h.Write([]byte(f.Category))
	h.Write([]byte{0})
	h.Write([]byte(f.Technique))
	return h.Sum64()
}
