// Package defaults provides canonical default values for the entire codebase.
// This is the SINGLE SOURCE OF TRUTH for runtime configuration defaults.
//
// Usage:
//
//	cfg.Workers = defaults.WorkersStandard
//	req.Header.Set("Content-Type", defaults.ContentTypeForm)
//
// DO NOT use hardcoded values like `Workers: 5` anywhere.
// Instead, reference the appropriate constant from this package.
package defaults

// Version is the current vantascan version
const Version = "1.3.0"

// ToolName is the canonical tool name used in user agents and telemetry.
const ToolName = "vantascan"

// ============================================================================
// CONCURRENCY SETTINGS
// ============================================================================
//
// Use these for the probe scheduler and any parallel operation.
// ============================================================================

const (
	// WorkersStandard is the default probe scheduler size (5)
	WorkersStandard = 5

	// WorkersAggressive is for aggressive scanning (20)
	WorkersAggressive = 20

	// WorkersMax is the maximum scheduler size (50)
	WorkersMax = 50
)

// ============================================================================
// REQUEST SETTINGS
// ============================================================================

const (
	// RateLimitDefault is the default requests-per-second cap (50)
	RateLimitDefault = 50

	// MaxUnionColumns is how many UNION column counts the SQLi
	// column-guess procedure tries (6)
	MaxUnionColumns = 6

	// BaselinePrefixLen bounds the baseline body snapshot kept for
	// similarity comparison (4000 chars)
	BaselinePrefixLen = 4000
)

// ============================================================================
// CONTENT TYPES
// ============================================================================

const (
	ContentTypeForm = "application/x-www-form-urlencoded"
	ContentTypeJSON = "application/json"
)
