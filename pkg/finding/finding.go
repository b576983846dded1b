package finding

import "time"

// Finding is a structured record of a detected (or strongly suspected)
// vulnerability. It is created once per (parameter, category) when a
// decision rule passes, and is immutable afterwards: the recorder owns it.
type Finding struct {
	ID        string   `json:"id"`
	Category  string   `json:"category"`
	Severity  Severity `json:"severity"`
	Target    string   `json:"target"`
	Parameter string   `json:"parameter"`

	// Technique names the decision procedure that fired,
	// e.g. "error-based", "boolean-blind", "union-based (cols~3)".
	Technique string `json:"technique"`

	// Rationale is the oracle's decision rationale enum value.
	Rationale string `json:"rationale"`

	// Evidence is a bounded snippet or score summary backing the decision.
	Evidence string `json:"evidence"`

	Payload string `json:"payload,omitempty"`

	BaselineStatus int `json:"baseline_status"`
	BaselineLen    int `json:"baseline_len"`
	ObservedStatus int `json:"observed_status"`
	ObservedLen    int `json:"observed_len"`

	// Timing is set for timing-divergence findings only.
	Timing time.Duration `json:"timing,omitempty"`

	Recommendation string    `json:"recommendation,omitempty"`
	DetectedAt     time.Time `json:"detected_at"`
}

// ScanResult is the base result type for scan operations.
type ScanResult struct {
	ScanID       string        `json:"scan_id"`
	Target       string        `json:"target"`
	TestedParams int           `json:"tested_params,omitempty"`
	StartTime    time.Time     `json:"start_time,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	Findings     []Finding     `json:"findings"`
}
