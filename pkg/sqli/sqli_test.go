package sqli

import (
	"strings"
	"testing"
)

func TestCategoryComplete(t *testing.T) {
	c := Category()
	if c.Name != "sqli" {
		t.Errorf("name = %q", c.Name)
	}
	if c.Payloads.Empty() {
		t.Fatal("payload set is empty")
	}
	if len(c.Fingerprints) == 0 {
		t.Fatal("no fingerprints")
	}
	if len(c.Payloads.Union) != 6 {
		t.Errorf("union payloads = %d, want 6", len(c.Payloads.Union))
	}
}

func TestMatchFingerprint(t *testing.T) {
	c := Category()
	cases := []struct {
		body string
		hit  bool
	}{
		{"You have an error in your SQL syntax; check the manual that corresponds to your MySQL server", true},
		{"ERROR:  syntax error at or near \"'\"", true},
		{"Unclosed quotation mark after the character string 'x'.", true},
		{"ORA-01756: quoted string not properly terminated", true},
		{"near \"SELECT\": syntax error", true},
		{"<html>normal product listing</html>", false},
		{"the word sql appears but no real error follows", false},
	}
	for _, tc := range cases {
		if _, got := c.MatchFingerprint(tc.body); got != tc.hit {
			t.Errorf("MatchFingerprint(%q) = %v, want %v", tc.body, got, tc.hit)
		}
	}
}

func TestUnionPayloadShape(t *testing.T) {
	ps := UnionPayloads(3)
	if len(ps) != 3 {
		t.Fatalf("len = %d", len(ps))
	}
	if ps[2].Payload != "1 UNION SELECT NULL,NULL,NULL-- " {
		t.Errorf("payload = %q", ps[2].Payload)
	}
	if ps[2].Columns != 3 {
		t.Errorf("columns = %d", ps[2].Columns)
	}
	if !strings.HasSuffix(ps[0].Payload, "-- ") {
		t.Errorf("comment terminator missing: %q", ps[0].Payload)
	}
}

func TestDetectDBMS(t *testing.T) {
	cases := []struct {
		body string
		want DBMS
	}{
		{"check the manual that corresponds to your MySQL server version for the right syntax", DBMSMySQL},
		{"PG::SyntaxError: ERROR: unterminated quoted string", DBMSPostgreSQL},
		{"Unclosed quotation mark after the character string", DBMSMSSQL},
		{"ORA-00933: SQL command not properly ended", DBMSOracle},
		{"SQLITE_ERROR: unrecognized token", DBMSSQLite},
		{"nothing here", DBMSGeneric},
	}
	for _, tc := range cases {
		if got := DetectDBMS(tc.body); got != tc.want {
			t.Errorf("DetectDBMS(%q) = %q, want %q", tc.body, got, tc.want)
		}
	}
}
