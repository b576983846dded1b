package cmdi

import (
	"strings"
	"testing"
)

func TestCategoryComplete(t *testing.T) {
	c := Category()
	if c.Name != "cmdi" {
		t.Errorf("name = %q", c.Name)
	}
	if len(c.Payloads.Reflective) == 0 || len(c.Payloads.Timed) == 0 {
		t.Fatal("payload catalog incomplete")
	}
}

func TestReflectiveMarkersConsistent(t *testing.T) {
	for _, rp := range ReflectivePayloads {
		if !strings.Contains(rp.Payload, Marker) {
			t.Errorf("payload %q does not carry the marker", rp.Payload)
		}
		if rp.Marker != Marker {
			t.Errorf("marker mismatch: %q", rp.Marker)
		}
		if !rp.Evaluated {
			t.Errorf("payload %q must require evaluation, not echo", rp.Payload)
		}
	}
}

func TestIDHintsMatch(t *testing.T) {
	c := Category()
	match := func(body string) bool {
		for _, re := range c.OperatorHints {
			if re.MatchString(body) {
				return true
			}
		}
		return false
	}

	if !match("uid=33(www-data) gid=33(www-data) groups=33(www-data)") {
		t.Error("id output not detected")
	}
	if match("product uid: abc-123") {
		t.Error("false positive on ordinary page text")
	}
}
