package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/vantascan/vantascan/pkg/baseline"
	"github.com/vantascan/vantascan/pkg/diff"
	"github.com/vantascan/vantascan/pkg/probe"
)

// HTTP-layer procedures: response splitting and parameter pollution do not
// probe a backend datastore, they probe the server's own header and query
// parsing. They share the oracle's probe/compare machinery all the same.

// splitting injects CRLF sequences and inspects the resulting response for
// attacker-controlled headers. A body shift against the baseline is the
// weaker fallback signal.
func (o *Oracle) splitting(ctx context.Context, tgt Target, cat *Category, base baseline.Baseline) *Decision {
	for _, p := range cat.Payloads.Splitting {
		res := o.probe(ctx, tgt, cat, p)
		if res.Failed() {
			continue
		}

		for name, vals := range res.Header {
			lower := strings.ToLower(name)
			if strings.Contains(lower, "injected") || strings.Contains(lower, "crlf") {
				return &Decision{
					Technique:      "header-injection",
					Rationale:      ProcSplit,
					Payload:        p,
					Evidence:       fmt.Sprintf("response carries %s: %s", name, strings.Join(vals, ",")),
					ObservedStatus: res.StatusCode,
					ObservedLen:    len(res.Body),
				}
			}
		}
		if loc := res.Header.Get("Location"); strings.Contains(loc, "evil.com") {
			return &Decision{
				Technique:      "location-injection",
				Rationale:      ProcSplit,
				Payload:        p,
				Evidence:       fmt.Sprintf("Location header became %q", loc),
				ObservedStatus: res.StatusCode,
				ObservedLen:    len(res.Body),
			}
		}
		if sc := res.Header.Get("Set-Cookie"); strings.Contains(sc, "CRLF") || strings.Contains(sc, "crlf=1") {
			return &Decision{
				Technique:      "setcookie-injection",
				Rationale:      ProcSplit,
				Payload:        p,
				Evidence:       fmt.Sprintf("Set-Cookie became %q", sc),
				ObservedStatus: res.StatusCode,
				ObservedLen:    len(res.Body),
			}
		}

		if !base.Failed() {
			if sim := diff.Similarity(res.Body, base.BodyPrefix); sim < o.thresholds.BooleanDivergence {
				return &Decision{
					Technique:      "response-split",
					Rationale:      ProcSplit,
					Payload:        p,
					Evidence:       fmt.Sprintf("baseline similarity %.2f after CRLF payload", sim),
					ObservedStatus: res.StatusCode,
					ObservedLen:    len(res.Body),
				}
			}
		}
	}
	return nil
}

// pollution repeats the parameter with distinct values and checks whether
// the server's pick is order dependent or shifts the page away from the
// baseline. Inconsistent parsing between components is what makes
// pollution exploitable.
func (o *Oracle) pollution(ctx context.Context, tgt Target, cat *Category, base baseline.Baseline) *Decision {
	vals := cat.Payloads.Pollution
	if len(vals) < 2 || base.Failed() {
		return nil
	}
	t := o.thresholds
	point := tgt.Point
	if point == "" {
		point = cat.Point
	}

	dup := o.client.Do(ctx, probe.Request{
		Method: tgt.Method, URL: tgt.URL, Param: tgt.Param,
		Point: point, Payload: vals[0],
		Extra: []probe.Pair{{Name: tgt.Param, Value: vals[1]}},
	})
	if dup.Failed() {
		return nil
	}
	if sim := diff.Similarity(dup.Body, base.BodyPrefix); sim < t.PollutionDivergence {
		return &Decision{
			Technique:      "duplicate-param",
			Rationale:      ProcPollution,
			Payload:        fmt.Sprintf("%s=%s&%s=%s", tgt.Param, vals[0], tgt.Param, vals[1]),
			Evidence:       fmt.Sprintf("baseline similarity %.2f with duplicated parameter", sim),
			ObservedStatus: dup.StatusCode,
			ObservedLen:    len(dup.Body),
		}
	}

	rev := o.client.Do(ctx, probe.Request{
		Method: tgt.Method, URL: tgt.URL, Param: tgt.Param,
		Point: point, Payload: vals[1],
		Extra: []probe.Pair{{Name: tgt.Param, Value: vals[0]}},
	})
	if rev.Failed() {
		return nil
	}
	if sim := diff.Similarity(rev.Body, dup.Body); sim < t.PollutionDivergence {
		return &Decision{
			Technique:      "order-dependent",
			Rationale:      ProcPollution,
			Payload:        fmt.Sprintf("%s=%s&%s=%s (reversed)", tgt.Param, vals[1], tgt.Param, vals[0]),
			Evidence:       fmt.Sprintf("permutation similarity %.2f between orderings", sim),
			ObservedStatus: rev.StatusCode,
			ObservedLen:    len(rev.Body),
		}
	}
	return nil
}
