// Package xpathi provides XPath injection detection for applications that
// run client input through XPath queries or XML lookups: verbose engine
// errors and boolean behavior flips via predicate expressions.
package xpathi

import (
	"github.com/vantascan/vantascan/pkg/finding"
	"github.com/vantascan/vantascan/pkg/oracle"
	"github.com/vantascan/vantascan/pkg/probe"
	"github.com/vantascan/vantascan/pkg/regexcache"
)

// errorPatterns match the error text XPath engines leak when a quote or
// bracket breaks predicate syntax.
var errorPatterns = []string{
	`(?i)XPathException`,
	`(?i)org\.apache\.xpath`,
	`(?i)XPATH syntax error`,
	`(?i)invalid predicate`,
	`(?i)Unclosed token`,
	`(?i)xmlXPathEval`,
	`(?i)SimpleXMLElement::xpath`,
}

// errorKeywords is the cheap substring pre-filter run before any regex.
var errorKeywords = []string{
	"xpath", "predicate", "unclosed token",
}

// ErrorPayloads are quote and bracket fragments that break predicate syntax.
var ErrorPayloads = []string{
	"'", "\"", "']", "' or", "[",
}

// BooleanPairs pit an always-true predicate against its falsy twin. The
// count and boolean forms hold on any document with a root node.
var BooleanPairs = []oracle.BooleanPair{
	{True: "' or '1'='1", False: "' and '1'='2"},
	{True: "' or count(/*)=1 or '", False: "' or count(/*)=0 or '"},
	{True: "' or boolean(/*)=true or '", False: "' or boolean(/*)=false or '"},
}

// Category builds the XPath injection category.
func Category() *oracle.Category {
	c := &oracle.Category{
		Name:     "xpathi",
		Severity: finding.Medium,
		Procedures: []oracle.Procedure{
			oracle.ProcError,
			oracle.ProcBoolean,
		},
		Point:    probe.PointQuery,
		Keywords: errorKeywords,
		Payloads: oracle.PayloadSet{
			Errors:       ErrorPayloads,
			BooleanPairs: BooleanPairs,
		},
		Recommendation: "Use parameterized XPath APIs or variable binding instead of string " +
			"concatenation. Validate input against an allowlist before it reaches any query.",
	}
	for _, p := range errorPatterns {
		c.Fingerprints = append(c.Fingerprints, regexcache.MustGet(p))
	}
	return c
}
