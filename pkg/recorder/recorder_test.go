package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/vantascan/vantascan/pkg/finding"
)

type countingSink struct {
	calls atomic.Int64
	err   error
}

func (s *countingSink) LogFinding(ctx context.Context, f finding.Finding) error {
	s.calls.Add(1)
	return s.err
}

func TestRecordAssignsIdentity(t *testing.T) {
	r := New(nil)
	ok := r.Record(context.Background(), finding.Finding{
		Category:  "sqli",
		Target:    "http://example.test/item",
		Parameter: "id",
		Technique: "error-based",
	})
	if !ok {
		t.Fatal("first record rejected")
	}

	got := r.Findings()
	if len(got) != 1 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].ID == "" {
		t.Error("ID not assigned")
	}
	if got[0].DetectedAt.IsZero() {
		t.Error("DetectedAt not assigned")
	}
}

func TestRecordDeduplicates(t *testing.T) {
	r := New(nil)
	f := finding.Finding{
		Category:  "sqli",
		Target:    "http://example.test/item",
		Parameter: "id",
		Technique: "error-based",
	}
	if !r.Record(context.Background(), f) {
		t.Fatal("first record rejected")
	}
	if r.Record(context.Background(), f) {
		t.Error("duplicate accepted")
	}

	// A different technique on the same parameter is a distinct finding.
	f.Technique = "boolean-blind"
	if !r.Record(context.Background(), f) {
		t.Error("distinct technique rejected")
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}

func TestRecordConcurrentWriters(t *testing.T) {
	r := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Record(context.Background(), finding.Finding{
				Category:  "sqli",
				Target:    "http://example.test/",
				Parameter: fmt.Sprintf("p%d", i),
				Technique: "error-based",
			})
		}(i)
	}
	wg.Wait()

	if r.Len() != 50 {
		t.Errorf("Len = %d, want 50", r.Len())
	}
}

func TestSinkFailureDoesNotFailRecord(t *testing.T) {
	broken := &countingSink{err: errors.New("exporter down")}
	healthy := &countingSink{}
	r := New(nil, broken, healthy)

	ok := r.Record(context.Background(), finding.Finding{
		Category: "cmdi", Target: "t", Parameter: "p", Technique: "command-echo",
	})
	if !ok {
		t.Fatal("sink failure leaked into Record")
	}
	if broken.calls.Load() != 1 || healthy.calls.Load() != 1 {
		t.Error("all sinks should still be invoked")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestFindingsReturnsCopy(t *testing.T) {
	r := New(nil)
	r.Record(context.Background(), finding.Finding{Category: "sqli", Parameter: "id"})

	got := r.Findings()
	got[0].Category = "mutated"
	if r.Findings()[0].Category != "sqli" {
		t.Error("Findings exposed internal slice")
	}
}
