// Package ssti provides server-side template injection detection across
// Jinja2, Twig, Freemarker, Velocity, ERB and JSP. A template engine
// evaluating 7*7 betrays itself by rendering 49 where the expression stood.
package ssti

import (
	"github.com/vantascan/vantascan/pkg/duration"
	"github.com/vantascan/vantascan/pkg/finding"
	"github.com/vantascan/vantascan/pkg/oracle"
	"github.com/vantascan/vantascan/pkg/probe"
)

// ReflectivePayloads probe one expression syntax per engine family. The
// Evaluated flag makes a verbatim echo of the expression a non-finding.
var ReflectivePayloads = []oracle.ReflectivePayload{
	{Payload: "{{7*7}}", Marker: "49", Evaluated: true, Technique: "template-eval"},
	{Payload: "${7*7}", Marker: "49", Evaluated: true, Technique: "template-eval"},
	{Payload: "<%= 7*7 %>", Marker: "49", Evaluated: true, Technique: "template-eval"},
	{Payload: "${{7*7}}", Marker: "49", Evaluated: true, Technique: "template-eval"},
	{Payload: "$mathTool.multiply(7,7)", Marker: "49", Evaluated: true, Technique: "template-eval"},
}

// TimedPayloads force the engine through an expensive loop for blind
// detection. Aggressive mode only.
var TimedPayloads = []oracle.TimedPayload{
	{Payload: "{{''.join(['' for x in range(5000000)])}}", Sleep: duration.SleepRequest},
	{Payload: "${{ ''.join(['' for x in range(5000000)]) }}", Sleep: duration.SleepRequest},
}

// Category builds the template injection category.
func Category() *oracle.Category {
	return &oracle.Category{
		Name:     "ssti",
		Severity: finding.Critical,
		Procedures: []oracle.Procedure{
			oracle.ProcReflect,
			oracle.ProcTiming,
		},
		Point: probe.PointQuery,
		Payloads: oracle.PayloadSet{
			Reflective: ReflectivePayloads,
			Timed:      TimedPayloads,
		},
		Recommendation: "Never feed user input into template source. Render user data through " +
			"context variables only, and sandbox the engine where supported.",
	}
}
