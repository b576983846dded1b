// Package hpp provides HTTP parameter pollution detection. Repeating a
// parameter with distinct values exposes parsing inconsistencies between
// servers, proxies and application code.
package hpp

import (
	"github.com/vantascan/vantascan/pkg/finding"
	"github.com/vantascan/vantascan/pkg/oracle"
	"github.com/vantascan/vantascan/pkg/probe"
)

// Values are the distinct markers used to duplicate a parameter. Short
// and inert: the signal is which one the server picks, not the value.
var Values = []string{"A", "B", "C"}

// Category builds the parameter pollution category.
func Category() *oracle.Category {
	return &oracle.Category{
		Name:       "hpp",
		Severity:   finding.Medium,
		Procedures: []oracle.Procedure{oracle.ProcPollution},
		Point:      probe.PointQuery,
		Payloads: oracle.PayloadSet{
			Pollution: Values,
		},
		Recommendation: "Reject duplicate parameters at the edge, or document and enforce one " +
			"precedence rule across every component that parses the query string.",
	}
}
