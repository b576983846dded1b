package nosqli

import "testing"

func TestCategoryComplete(t *testing.T) {
	c := Category()
	if c.Name != "nosqli" {
		t.Errorf("name = %q", c.Name)
	}
	if len(c.Payloads.BooleanPairs) == 0 || len(c.Payloads.Operators) == 0 {
		t.Fatal("payload catalog incomplete")
	}
	if len(c.OperatorHints) == 0 {
		t.Fatal("no operator hints")
	}
}

func TestOperatorHintsMatch(t *testing.T) {
	c := Category()
	match := func(body string) bool {
		for _, re := range c.OperatorHints {
			if re.MatchString(body) {
				return true
			}
		}
		return false
	}

	if !match(`unknown operator: $ne in query document`) {
		t.Error("$ne echo not detected")
	}
	if !match(`{"$where": "this.value != null"} could not be parsed`) {
		t.Error("$where echo not detected")
	}
	if match("regular search results page") {
		t.Error("false positive on clean body")
	}
}
