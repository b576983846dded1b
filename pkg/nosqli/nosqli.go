// Package nosqli provides NoSQL injection detection for MongoDB-style
// backends: boolean behavior flips via query operators, and operator text
// leaking back into responses.
package nosqli

import (
	"github.com/vantascan/vantascan/pkg/finding"
	"github.com/vantascan/vantascan/pkg/oracle"
	"github.com/vantascan/vantascan/pkg/probe"
	"github.com/vantascan/vantascan/pkg/regexcache"
)

// operatorHints match Mongo query operators echoed in error text or
// serialized query dumps.
var operatorHints = []string{
	`\$where`,
	`\$ne`,
	`\$gt`,
	`\$regex`,
	`\$and`,
	`\$or`,
}

// BooleanPairs pit an always-true operator object against a value that
// matches nothing. Login and search parameters are the usual victims.
var BooleanPairs = []oracle.BooleanPair{
	{True: `{"$ne": null}`, False: `"fixedvalue"`},
	{True: `{"$gt": ""}`, False: `"zzzzzzzzzz"`},
	{True: `{"$regex": ".*"}`, False: `"no_such_value_12345"`},
}

// OperatorPayloads are sent to catch unhandled operator echo.
var OperatorPayloads = []string{
	`{"$ne": null}`,
	`{"$where": "this.value != null"}`,
}

// Category builds the NoSQL injection category.
func Category() *oracle.Category {
	c := &oracle.Category{
		Name:     "nosqli",
		Severity: finding.High,
		Procedures: []oracle.Procedure{
			oracle.ProcBoolean,
			oracle.ProcOperator,
		},
		Point: probe.PointQuery,
		Payloads: oracle.PayloadSet{
			BooleanPairs: BooleanPairs,
			Operators:    OperatorPayloads,
		},
		Recommendation: "Validate input against a strict schema and never pass client-supplied " +
			"objects into queries. Whitelist allowed operators and fields.",
	}
	for _, h := range operatorHints {
		c.OperatorHints = append(c.OperatorHints, regexcache.MustGet(h))
	}
	return c
}
