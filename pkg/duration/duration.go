// Package duration provides canonical time constants for the entire codebase.
// This is the SINGLE SOURCE OF TRUTH for all time-based configuration.
//
// Usage:
//
//	ctx, cancel := context.WithTimeout(ctx, duration.ContextScan)
//	if elapsed > duration.DelayThreshold { ... }
//
// DO NOT use hardcoded time.Duration values like `12 * time.Second` anywhere.
// Instead, reference the appropriate constant from this package.
package duration

import "time"

// ============================================================================
// HTTP CLIENT TIMEOUTS
// ============================================================================

const (
	// HTTPProbing is for quick baseline and fingerprint requests (5s)
	HTTPProbing = 5 * time.Second

	// HTTPScanning is the per-probe hard timeout (12s). Timing payloads
	// requesting a 5s delay fit comfortably below this cap.
	HTTPScanning = 12 * time.Second

	// HTTPMax is the ceiling for any single probe (15s); one
	// non-responsive target must not stall a scheduler slot longer.
	HTTPMax = 15 * time.Second
)

// ============================================================================
// CONTEXT/OPERATION TIMEOUTS
// ============================================================================

const (
	// ContextShort is for quick operations (30s)
	ContextShort = 30 * time.Second

	// ContextScan bounds a full scan session (30min)
	ContextScan = 30 * time.Minute
)

// ============================================================================
// TIMING ANALYSIS
// ============================================================================
//
// Use these for blind time-based detection. Payloads request a 5s
// server-side delay; the threshold sits below that to absorb jitter.
// ============================================================================

const (
	// SleepRequest is the delay the timing payloads ask the target to
	// introduce (5s)
	SleepRequest = 5 * time.Second

	// DelayThreshold is the elapsed-over-baseline threshold that flags a
	// timing probe as delayed (4.5s)
	DelayThreshold = 4500 * time.Millisecond
)

// ============================================================================
// NETWORK/TRANSPORT
// ============================================================================

const (
	// DialTimeout is for establishing TCP connections (10s)
	DialTimeout = 10 * time.Second

	// KeepAlive is for TCP keep-alive interval (30s)
	KeepAlive = 30 * time.Second

	// IdleConnTimeout is for idle connection pool timeout (90s)
	IdleConnTimeout = 90 * time.Second

	// TLSHandshake is for TLS handshake timeout (10s)
	TLSHandshake = 10 * time.Second
)

// ============================================================================
// TELEMETRY
// ============================================================================

const (
	// TelemetryShutdown bounds graceful exporter shutdown (5s)
	TelemetryShutdown = 5 * time.Second

	// TelemetryConnect bounds OTLP connection establishment (10s)
	TelemetryConnect = 10 * time.Second
)
