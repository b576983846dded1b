package crlf

import (
	"strings"
	"testing"

	"github.com/vantascan/vantascan/pkg/oracle"
)

func TestCategoryComplete(t *testing.T) {
	c := Category()
	if c.Name != "crlf" {
		t.Errorf("name = %q", c.Name)
	}
	if len(c.Payloads.Splitting) == 0 {
		t.Fatal("no splitting payloads")
	}
	if c.Procedures[0] != oracle.ProcSplit {
		t.Errorf("procedures = %v", c.Procedures)
	}
}

func TestPayloadsCarryRawNewlines(t *testing.T) {
	for _, p := range Payloads {
		if !strings.Contains(p, "\n") {
			t.Errorf("payload %q carries no newline", p)
		}
		if strings.Contains(p, "%0d") || strings.Contains(p, "%0a") {
			t.Errorf("payload %q is pre-encoded; encoding happens at the probe layer", p)
		}
	}
}
