package diff

import (
	"math"
	"strings"
	"testing"
)

func TestSimilarityIdentity(t *testing.T) {
	texts := []string{
		"",
		"hello",
		"line one\nline two\nline three\nline four",
		strings.Repeat("<div>content</div>\n", 200),
	}
	for _, s := range texts {
		if got := Similarity(s, s); got != 1.0 {
			t.Errorf("Similarity(s,s) = %v, want 1.0 (len %d)", got, len(s))
		}
	}
}

func TestSimilarityDisjoint(t *testing.T) {
	a := "alpha bravo charlie delta"
	b := "echo foxtrot golf hotel"
	if got := Similarity(a, b); got >= 1.0 {
		t.Errorf("disjoint texts scored %v, want < 1.0", got)
	}
	if got := Similarity(a, b); got != 0.0 {
		t.Errorf("fully disjoint tokens scored %v, want 0.0", got)
	}
}

func TestSimilarityEmpty(t *testing.T) {
	if got := Similarity("", "something"); got != 0.0 {
		t.Errorf("Similarity(empty, text) = %v, want 0.0", got)
	}
	if got := Similarity("something", ""); got != 0.0 {
		t.Errorf("Similarity(text, empty) = %v, want 0.0", got)
	}
	if got := Similarity("", ""); got != 1.0 {
		t.Errorf("Similarity(empty, empty) = %v, want 1.0", got)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a := "the quick brown fox\njumps over\nthe lazy dog\nend of page"
	b := "the quick brown fox\nwalks under\nthe lazy dog\nend of page"
	ab := Similarity(a, b)
	ba := Similarity(b, a)
	if math.Abs(ab-ba) > 0.01 {
		t.Errorf("similarity not symmetric: %v vs %v", ab, ba)
	}
}

func TestSimilarityNearIdenticalPages(t *testing.T) {
	// Pages differing only in a timestamp line must score near 1.0;
	// exact-match hashing would score them 0.
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		sb.WriteString("<p>static content row</p>\n")
	}
	a := sb.String() + "generated at 10:00:01\n"
	b := sb.String() + "generated at 10:00:02\n"

	if got := Similarity(a, b); got < 0.95 {
		t.Errorf("near-identical pages scored %v, want >= 0.95", got)
	}
}

func TestSimilarityDivergentBranches(t *testing.T) {
	// The boolean-pair rule depends on true/false branches scoring low
	// against each other while one resembles the baseline.
	truthy := strings.Repeat("A", 1000)
	falsy := strings.Repeat("B", 1000)
	baseline := strings.Repeat("A", 1000)

	if got := Similarity(truthy, falsy); got >= 0.60 {
		t.Errorf("divergent branches scored %v, want < 0.60", got)
	}
	if got := Similarity(truthy, baseline); got <= 0.85 {
		t.Errorf("matching branch scored %v against baseline, want > 0.85", got)
	}
}

func TestSimilaritySingleLineBodies(t *testing.T) {
	// Single-line JSON bodies tokenize by words, not lines.
	a := `{"status": "ok", "items": [1, 2, 3], "total": 3}`
	b := `{"status": "ok", "items": [1, 2, 3], "total": 4}`
	got := Similarity(a, b)
	if got <= 0.5 || got >= 1.0 {
		t.Errorf("near-identical JSON scored %v, want in (0.5, 1.0)", got)
	}
}

func TestSimilarityLargeBodiesBounded(t *testing.T) {
	// Bodies past the token cap still produce a sane score quickly.
	a := strings.Repeat("row of page content\n", 5000)
	b := strings.Repeat("row of page content\n", 5000) + "extra\n"
	if got := Similarity(a, b); got < 0.99 {
		t.Errorf("truncated comparison scored %v, want >= 0.99", got)
	}
}

func TestSimilarityRange(t *testing.T) {
	pairs := [][2]string{
		{"a", "b"},
		{"a b c", "a b c d"},
		{"x\ny\nz\nw", "x\nq\nz\nw"},
		{strings.Repeat("tok ", 100), strings.Repeat("kot ", 100)},
	}
	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		if got < 0.0 || got > 1.0 {
			t.Errorf("Similarity(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
		}
	}
}
