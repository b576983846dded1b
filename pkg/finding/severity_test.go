package finding

import "testing"

func TestSeverityIsValid(t *testing.T) {
	for _, s := range []Severity{Critical, High, Medium, Low, Info} {
		if !s.IsValid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if Severity("urgent").IsValid() {
		t.Error("expected unknown severity to be invalid")
	}
}

func TestSeverityScoreOrdering(t *testing.T) {
	ordered := []Severity{Info, Low, Medium, High, Critical}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Score() <= ordered[i-1].Score() {
			t.Errorf("expected %q > %q", ordered[i], ordered[i-1])
		}
	}
	if Severity("bogus").Score() != 0 {
		t.Error("expected unknown severity to score 0")
	}
}
