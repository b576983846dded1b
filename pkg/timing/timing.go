// Package timing decides whether an observed response latency indicates an
// injected delay. Two modes are supported: a fixed threshold over the
// baseline latency (the default for time-based probes carrying an explicit
// sleep), and a statistical test against a sample of baseline latencies for
// targets with noisy response times.
package timing

import (
	"math"
	"sync"
	"time"

	"github.com/vantascan/vantascan/pkg/duration"
)

// DefaultThreshold is the minimum extra latency treated as an injected
// delay. Probes sleep for 5s, so anything 4.5s over baseline is a hit
// while ordinary jitter stays well below it.
const DefaultThreshold = duration.DelayThreshold

// DefaultDeviations is the multiplier k in the statistical test
// |observed - mean| > k * stddev.
const DefaultDeviations = 3.0

// FixedDelay reports whether observed exceeds baseline by more than
// threshold. A zero threshold selects DefaultThreshold.
func FixedDelay(baseline, observed, threshold time.Duration) bool {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return observed-baseline > threshold
}

// Analyzer accumulates baseline latency samples and classifies later
// observations against their distribution. Safe for concurrent use.
type Analyzer struct {
	mu      sync.Mutex
	samples []time.Duration

	// Deviations is the k in |observed - mean| > k * stddev.
	// Zero selects DefaultDeviations.
	Deviations float64

	// Threshold is the fixed fallback used when fewer than two samples
	// have been recorded. Zero selects DefaultThreshold.
	Threshold time.Duration
}

// Record adds a baseline latency sample.
func (a *Analyzer) Record(d time.Duration) {
	a.mu.Lock()
	a.samples = append(a.samples, d)
	a.mu.Unlock()
}

// Samples returns the number of recorded baseline latencies.
func (a *Analyzer) Samples() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.samples)
}

// Delayed reports whether observed is an outlier against the recorded
// baseline distribution. With fewer than two samples there is no usable
// stddev, so it falls back to the fixed threshold against the sample
// mean (or zero when no samples exist).
func (a *Analyzer) Delayed(observed time.Duration) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	mean, stddev := stats(a.samples)
	if len(a.samples) < 2 || stddev == 0 {
		threshold := a.Threshold
		if threshold <= 0 {
			threshold = DefaultThreshold
		}
		return observed-mean > threshold
	}

	k := a.Deviations
	if k <= 0 {
		k = DefaultDeviations
	}
	return math.Abs(float64(observed-mean)) > k*stddev
}

func stats(samples []time.Duration) (mean time.Duration, stddev float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	var sum time.Duration
	for _, s := range samples {
		sum += s
	}
	mean = sum / time.Duration(len(samples))

	if len(samples) < 2 {
		return mean, 0
	}
	var sq float64
	for _, s := range samples {
		d := float64(s - mean)
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(samples)))
}
