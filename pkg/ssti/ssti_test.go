package ssti

import (
	"strings"
	"testing"
)

func TestCategoryComplete(t *testing.T) {
	c := Category()
	if c.Name != "ssti" {
		t.Errorf("name = %q", c.Name)
	}
	if len(c.Payloads.Reflective) < 5 {
		t.Errorf("reflective probes = %d, want one per engine family", len(c.Payloads.Reflective))
	}
}

func TestProbesEvaluateToMarker(t *testing.T) {
	for _, rp := range ReflectivePayloads {
		if rp.Marker != "49" {
			t.Errorf("probe %q marker = %q, want 49", rp.Payload, rp.Marker)
		}
		if strings.Contains(rp.Payload, rp.Marker) {
			t.Errorf("probe %q contains its own marker; echo would false-positive", rp.Payload)
		}
		if !rp.Evaluated {
			t.Errorf("probe %q must require evaluation", rp.Payload)
		}
	}
}
