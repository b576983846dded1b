// Package cmdi provides OS command injection detection. Reflective probes
// append small echo commands whose output marks the response; timing probes
// append sleeps for blind cases and only run in aggressive mode.
package cmdi

import (
	"github.com/vantascan/vantascan/pkg/duration"
	"github.com/vantascan/vantascan/pkg/finding"
	"github.com/vantascan/vantascan/pkg/oracle"
	"github.com/vantascan/vantascan/pkg/probe"
	"github.com/vantascan/vantascan/pkg/regexcache"
)

// Marker is the string an executed echo prints. Distinct enough to never
// occur in organic page content.
const Marker = "CMDI_TEST_12345"

// ReflectivePayloads cover the common shell composition operators. The
// marker appearing without the payload text means the command ran.
var ReflectivePayloads = []oracle.ReflectivePayload{
	{Payload: "; echo " + Marker, Marker: Marker, Evaluated: true, Technique: "command-echo"},
	{Payload: "`echo " + Marker + "`", Marker: Marker, Evaluated: true, Technique: "command-echo"},
	{Payload: "$(echo " + Marker + ")", Marker: Marker, Evaluated: true, Technique: "command-echo"},
}

// IDPayloads run `id`; its uid=/gid= output in a response is a strong
// execution signal even without a marker.
var IDPayloads = []string{
	"; id",
	"| id",
	"$(id)",
}

var idHints = []string{
	`uid=\d+`,
	`gid=\d+`,
	`root@`,
}

// TimedPayloads append sleeps through the same composition operators.
var TimedPayloads = []oracle.TimedPayload{
	{Payload: "; sleep 5", Sleep: duration.SleepRequest},
	{Payload: "|| sleep 5", Sleep: duration.SleepRequest},
	{Payload: "$(sleep 5)", Sleep: duration.SleepRequest},
}

// Category builds the command injection category.
func Category() *oracle.Category {
	c := &oracle.Category{
		Name:     "cmdi",
		Severity: finding.Critical,
		Procedures: []oracle.Procedure{
			oracle.ProcReflect,
			oracle.ProcOperator,
			oracle.ProcTiming,
		},
		Point: probe.PointQuery,
		Payloads: oracle.PayloadSet{
			Reflective: ReflectivePayloads,
			Operators:  IDPayloads,
			Timed:      TimedPayloads,
		},
		Recommendation: "Never pass user input to a shell. Use exec APIs with argument arrays, " +
			"whitelist expected values, and drop shell metacharacters at the boundary.",
	}
	for _, h := range idHints {
		c.OperatorHints = append(c.OperatorHints, regexcache.MustGet(h))
	}
	return c
}
