// Package diff computes normalized similarity scores between HTTP response
// bodies. The score drives every differential decision rule: boolean-pair
// divergence, union column guessing, and CRLF/HPP body-shift heuristics.
//
// The measure is a longest-common-subsequence ratio over lines (falling back
// to word tokens for single-line bodies), not exact-match hashing: pages that
// differ only in timestamps or nonces must still score near 1.0.
package diff

import (
	"strings"

	"github.com/spaolacci/murmur3"
	"golang.org/x/text/unicode/norm"
)

const (
	// maxTokens bounds the quadratic LCS cost. 2000 lines of context is
	// far more than any decision rule needs; longer bodies are truncated
	// symmetrically on both sides of the comparison.
	maxTokens = 2000

	// minLineTokens is the line count under which bodies are re-tokenized
	// by words. Single-line JSON or minified HTML would otherwise collapse
	// to a 0-or-1 comparison.
	minLineTokens = 4
)

// Similarity returns a score in [0,1] for the textual likeness of a and b:
// 1.0 means identical, 0.0 maximally different. It is total (defined for
// empty strings) and symmetric up to token truncation.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	ta := tokenize(a)
	tb := tokenize(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1.0
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}

	matched := lcsLength(ta, tb)
	return 2 * float64(matched) / float64(len(ta)+len(tb))
}

// tokenize normalizes the body and splits it into comparable units.
// Unicode is NFC-normalized so byte-level encoding differences between
// otherwise identical pages do not depress the score.
func tokenize(s string) []uint64 {
	s = norm.NFC.String(s)

	lines := strings.Split(s, "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}

	if len(parts) < minLineTokens {
		parts = strings.Fields(s)
	}
	if len(parts) > maxTokens {
		parts = parts[:maxTokens]
	}

	hashes := make([]uint64, len(parts))
	for i, p := range parts {
		hashes[i] = murmur3.Sum64([]byte(p))
	}
	return hashes
}

// lcsLength computes the length of the longest common subsequence of two
// hashed token sequences using a two-row dynamic program.
func lcsLength(a, b []uint64) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	// Keep the inner loop over the shorter sequence.
	if len(b) > len(a) {
		a, b = b, a
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
