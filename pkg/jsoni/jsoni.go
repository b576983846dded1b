// Package jsoni provides JSON injection detection for endpoints that
// deserialize request bodies into queries or objects: prototype pollution
// echoes, Mongo operator leakage, and quote-breaking in JSON fields.
package jsoni

import (
	"github.com/vantascan/vantascan/pkg/finding"
	"github.com/vantascan/vantascan/pkg/oracle"
	"github.com/vantascan/vantascan/pkg/probe"
	"github.com/vantascan/vantascan/pkg/regexcache"
)

// OperatorPayloads are JSON values with injection potential: pollution
// vectors, Mongo operators, and a classic quote-breaker. They are bound to
// the target field of a JSON body.
var OperatorPayloads = []string{
	`{"__proto__": {"polluted": "1"}}`,
	`{"constructor": {"prototype": {"polluted": "1"}}}`,
	`{"$ne": null}`,
	`{"$gt": ""}`,
	`' OR '1'='1`,
	`{"$where": "this.value != null"}`,
}

// leakHints match operator or pollution text echoed back in the response.
var leakHints = []string{
	`(?i)"polluted"`,
	`\$ne`,
	`\$gt`,
	`\$where`,
}

// BooleanPairs flip matching behavior through operator objects in JSON
// fields, mirroring the NoSQL pairs at the JSON injection point.
var BooleanPairs = []oracle.BooleanPair{
	{True: `{"$ne": null}`, False: `"fixedvalue"`},
	{True: `{"$gt": ""}`, False: `"zzzzzzzzzz"`},
}

// Category builds the JSON injection category.
func Category() *oracle.Category {
	c := &oracle.Category{
		Name:     "jsoni",
		Severity: finding.High,
		Procedures: []oracle.Procedure{
			oracle.ProcOperator,
			oracle.ProcBoolean,
		},
		Point: probe.PointJSON,
		Payloads: oracle.PayloadSet{
			Operators:    OperatorPayloads,
			BooleanPairs: BooleanPairs,
		},
		Recommendation: "Deserialize into typed structures with unknown fields rejected. Never " +
			"merge client JSON into objects or query documents without a schema.",
	}
	for _, h := range leakHints {
		c.OperatorHints = append(c.OperatorHints, regexcache.MustGet(h))
	}
	return c
}
