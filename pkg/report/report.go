// Package report renders scan results as JSON, HTML, or PDF. Findings are
// sorted by severity so the riskiest entries lead every format.
package report

import (
	"io"
	"sort"

	"github.com/vantascan/vantascan/pkg/finding"
	"github.com/vantascan/vantascan/pkg/jsonutil"
)

// sorted returns the findings ordered by descending severity, then by
// category and parameter for a stable layout.
func sorted(fs []finding.Finding) []finding.Finding {
	out := make([]finding.Finding, len(fs))
	copy(out, fs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity.Score() != out[j].Severity.Score() {
			return out[i].Severity.Score() > out[j].Severity.Score()
		}
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Parameter < out[j].Parameter
	})
	return out
}

// severityCounts tallies findings per severity label.
func severityCounts(fs []finding.Finding) map[finding.Severity]int {
	counts := make(map[finding.Severity]int)
	for _, f := range fs {
		counts[f.Severity]++
	}
	return counts
}

// WriteJSON writes the result as indented JSON with findings sorted by
// severity.
func WriteJSON(w io.Writer, res finding.ScanResult) error {
	res.Findings = sorted(res.Findings)
	data, err := jsonutil.MarshalIndent(res, "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
