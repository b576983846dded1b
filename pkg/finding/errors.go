package finding

import "errors"

// Sentinel errors for caller-misuse failure modes. Transport failures are
// NOT errors: they surface as sentinel probe results and the scan continues.
// Callers should use errors.Is() to check for these.
var (
	// ErrNoPayloads indicates an empty payload set was supplied for the
	// requested category. This is a programming error at the oracle's
	// public boundary, not a runtime condition.
	ErrNoPayloads = errors.New("finding: no payloads available")

	// ErrUnknownCategory indicates the caller asked for a vulnerability
	// category the oracle has no procedures for.
	ErrUnknownCategory = errors.New("finding: unknown category")

	// ErrNoTarget indicates a scan session was built without a target URL.
	ErrNoTarget = errors.New("finding: no target URL")
)
