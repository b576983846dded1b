// Package crlf provides CRLF injection detection: HTTP response splitting,
// header injection, and redirect poisoning through encoded newline payloads.
package crlf

import (
	"github.com/vantascan/vantascan/pkg/finding"
	"github.com/vantascan/vantascan/pkg/oracle"
	"github.com/vantascan/vantascan/pkg/probe"
)

// Payloads carry raw CR/LF pairs followed by a header the server should
// never emit. Query encoding turns them into %0d%0a on the wire; a server
// that decodes without stripping lets them reach the response head.
var Payloads = []string{
	"\r\nSet-Cookie: CRLF=1",
	"\r\nContent-Length: 0",
	"\r\nX-Injected:1",
	"\r\nLocation: http://evil.com/",
	"\nSet-Cookie: crlf=1",
}

// Category builds the CRLF injection category.
func Category() *oracle.Category {
	return &oracle.Category{
		Name:       "crlf",
		Severity:   finding.High,
		Procedures: []oracle.Procedure{oracle.ProcSplit},
		Point:      probe.PointQuery,
		Payloads: oracle.PayloadSet{
			Splitting: Payloads,
		},
		Recommendation: "Strip or encode CR and LF characters from user input before it reaches " +
			"response headers. Use framework APIs that reject multiline header values.",
	}
}
