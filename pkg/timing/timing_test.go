package timing

import (
	"testing"
	"time"
)

func TestFixedDelay(t *testing.T) {
	baseline := 100 * time.Millisecond
	threshold := 4500 * time.Millisecond

	if !FixedDelay(baseline, 5*time.Second, threshold) {
		t.Error("5s against a 0.1s baseline should register as delayed")
	}
	if FixedDelay(baseline, 300*time.Millisecond, threshold) {
		t.Error("0.3s against a 0.1s baseline should not register as delayed")
	}
}

func TestFixedDelayDefaultThreshold(t *testing.T) {
	if !FixedDelay(0, 5*time.Second, 0) {
		t.Error("zero threshold should fall back to the default")
	}
	if FixedDelay(0, 4*time.Second, 0) {
		t.Error("4s is under the default 4.5s threshold")
	}
}

func TestAnalyzerStatistical(t *testing.T) {
	a := &Analyzer{}
	for _, ms := range []int{100, 110, 95, 105, 98, 102} {
		a.Record(time.Duration(ms) * time.Millisecond)
	}

	if !a.Delayed(5 * time.Second) {
		t.Error("5s against a ~100ms distribution should be an outlier")
	}
	if a.Delayed(104 * time.Millisecond) {
		t.Error("104ms sits inside the distribution")
	}
}

func TestAnalyzerFlatSamplesFallback(t *testing.T) {
	// Identical samples give stddev 0; the fixed threshold applies.
	a := &Analyzer{}
	a.Record(100 * time.Millisecond)
	a.Record(100 * time.Millisecond)
	a.Record(100 * time.Millisecond)

	if !a.Delayed(5 * time.Second) {
		t.Error("5s over a flat 100ms baseline should be delayed")
	}
	if a.Delayed(300 * time.Millisecond) {
		t.Error("300ms over a flat 100ms baseline is within the threshold")
	}
}

func TestAnalyzerTooFewSamples(t *testing.T) {
	a := &Analyzer{}
	a.Record(100 * time.Millisecond)

	if !a.Delayed(5 * time.Second) {
		t.Error("single-sample fallback should flag a 5s observation")
	}
	if a.Delayed(200 * time.Millisecond) {
		t.Error("single-sample fallback should pass a 200ms observation")
	}
	if a.Samples() != 1 {
		t.Errorf("Samples() = %d, want 1", a.Samples())
	}
}

func TestAnalyzerNoSamples(t *testing.T) {
	a := &Analyzer{}
	if !a.Delayed(5 * time.Second) {
		t.Error("with no samples, observations past the threshold still flag")
	}
	if a.Delayed(time.Second) {
		t.Error("with no samples, sub-threshold observations pass")
	}
}
