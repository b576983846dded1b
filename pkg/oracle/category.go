package oracle

import (
	"regexp"
	"strings"
	"time"

	"github.com/vantascan/vantascan/pkg/finding"
	"github.com/vantascan/vantascan/pkg/probe"
)

// Category bundles everything the oracle needs to test one vulnerability
// class: which procedures to run, the payload catalog, and the response
// fingerprints that confirm a hit. Category packages (sqli, nosqli, ...)
// each export a constructor for theirs.
type Category struct {
	Name     string
	Severity finding.Severity

	// Procedures run in order; the first positive decision wins.
	Procedures []Procedure

	Payloads PayloadSet

	// Point is the default injection point when the target does not
	// specify one.
	Point probe.Point

	// Fingerprints match verbose backend error text. Keywords is a cheap
	// substring pre-filter so most responses never touch the regexes.
	Fingerprints []*regexp.Regexp
	Keywords     []string

	// OperatorHints match query operators leaking into responses.
	OperatorHints []*regexp.Regexp

	Recommendation string
}

// MatchFingerprint reports whether body carries a known backend error
// signature, returning the matched text as evidence.
func (c *Category) MatchFingerprint(body string) (string, bool) {
	if len(c.Keywords) > 0 {
		lower := strings.ToLower(body)
		found := false
		for _, kw := range c.Keywords {
			if strings.Contains(lower, kw) {
				found = true
				break
			}
		}
		if !found {
			return "", false
		}
	}
	for _, re := range c.Fingerprints {
		if m := re.FindString(body); m != "" {
			return m, true
		}
	}
	return "", false
}

// PayloadSet is the payload catalog for one category. Only the slices a
// category's procedures use need to be populated.
type PayloadSet struct {
	// Errors are syntax-breaking payloads for the error-signature procedure.
	Errors []string

	// BooleanPairs are truthy/falsy variants of the same expression.
	BooleanPairs []BooleanPair

	// Timed are payloads carrying an explicit sleep.
	Timed []TimedPayload

	// Union are column-count guesses for union-based detection.
	Union []UnionPayload

	// Operators are datastore operator payloads for leak detection.
	Operators []string

	// Reflective are marker-carrying payloads for echo detection.
	Reflective []ReflectivePayload

	// Splitting are CRLF sequences for response-splitting detection.
	Splitting []string

	// Pollution holds the distinct values used to duplicate a parameter.
	Pollution []string
}

// Empty reports whether the set carries no payloads at all.
func (p PayloadSet) Empty() bool {
	return len(p.Errors) == 0 &&
		len(p.BooleanPairs) == 0 &&
		len(p.Timed) == 0 &&
		len(p.Union) == 0 &&
		len(p.Operators) == 0 &&
		len(p.Reflective) == 0 &&
		len(p.Splitting) == 0 &&
		len(p.Pollution) == 0
}

// BooleanPair holds a truthy payload and its falsy twin.
type BooleanPair struct {
	True  string
	False string
}

// TimedPayload carries an injected sleep of a known length.
type TimedPayload struct {
	Payload string
	Sleep   time.Duration
}

// UnionPayload is one column-count guess.
type UnionPayload struct {
	Payload string
	Columns int
}

// ReflectivePayload carries a marker whose presence in the response body
// confirms the payload executed. When Evaluated is set, the marker is the
// computed output of the payload (say a template expression) and a verbatim
// payload echo disqualifies the hit.
type ReflectivePayload struct {
	Payload   string
	Marker    string
	Evaluated bool

	// Technique labels the finding, e.g. "command-echo" or "template-eval".
	Technique string
}
