// Package oracle decides whether an injection point is vulnerable by probing
// it with category payloads and comparing responses against the baseline.
// Detection procedures run in a fixed order and the first positive wins:
// later, weaker signals never override an error signature already found.
package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vantascan/vantascan/pkg/baseline"
	"github.com/vantascan/vantascan/pkg/diff"
	"github.com/vantascan/vantascan/pkg/finding"
	"github.com/vantascan/vantascan/pkg/probe"
	"github.com/vantascan/vantascan/pkg/timing"
)

// Procedure names one detection technique a category can run.
type Procedure string

const (
	ProcError     Procedure = "error-signature"
	ProcBoolean   Procedure = "boolean-pair"
	ProcTiming    Procedure = "timing"
	ProcUnion     Procedure = "union-columns"
	ProcOperator  Procedure = "operator-leak"
	ProcReflect   Procedure = "reflection"
	ProcSplit     Procedure = "response-splitting"
	ProcPollution Procedure = "parameter-pollution"
)

// Thresholds holds every tunable cutoff in one place. The zero value is
// unusable; start from DefaultThresholds and adjust.
type Thresholds struct {
	// BooleanDivergence is the ceiling for the true/false branch
	// similarity: branches scoring below it are considered divergent.
	BooleanDivergence float64

	// BaselineAffinity is the floor for one branch's similarity to the
	// baseline: at least one branch must resemble the unmodified page,
	// or the divergence is just an unstable endpoint.
	BaselineAffinity float64

	// UnionDivergence is the ceiling for a union probe's similarity to
	// the baseline before a column-count hit is declared.
	UnionDivergence float64

	// ReflectDivergence is the ceiling used alongside marker echo checks.
	ReflectDivergence float64

	// PollutionDivergence is the ceiling for a duplicated-parameter
	// response's similarity to the baseline (or to its reordering).
	PollutionDivergence float64

	// Delay is the minimum extra latency treated as an injected sleep.
	Delay time.Duration
}

// DefaultThresholds returns the calibrated defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BooleanDivergence:   0.60,
		BaselineAffinity:    0.85,
		UnionDivergence:     0.70,
		ReflectDivergence:   0.75,
		PollutionDivergence: 0.80,
		Delay:               timing.DefaultThreshold,
	}
}

// Decision is a positive verdict for one (target, parameter, category).
type Decision struct {
	Category  string
	Parameter string
	Severity  finding.Severity

	// Technique is human-facing, e.g. "error-based" or "union-based (cols~3)".
	Technique string
	Rationale Procedure
	Payload   string
	Evidence  string

	ObservedStatus int
	ObservedLen    int
	Delay          time.Duration

	Recommendation string
}

// Target is the injection point under evaluation.
type Target struct {
	URL    string
	Param  string
	Method string
	Point  probe.Point
}

// Oracle runs detection procedures for registered categories.
type Oracle struct {
	client     *probe.Client
	log        *slog.Logger
	thresholds Thresholds
	aggressive bool
	categories map[string]*Category
}

// Option configures an Oracle.
type Option func(*Oracle)

// WithThresholds overrides the default cutoffs.
func WithThresholds(t Thresholds) Option {
	return func(o *Oracle) { o.thresholds = t }
}

// WithAggressive enables timing procedures, which hold connections open
// for seconds per probe and are off by default.
func WithAggressive(on bool) Option {
	return func(o *Oracle) { o.aggressive = on }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *Oracle) { o.log = log }
}

// New builds an Oracle over the given probe client.
func New(client *probe.Client, opts ...Option) *Oracle {
	o := &Oracle{
		client:     client,
		log:        slog.New(slog.DiscardHandler),
		thresholds: DefaultThresholds(),
		categories: make(map[string]*Category),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Register adds a category. Registering twice replaces the earlier one.
func (o *Oracle) Register(c *Category) {
	o.categories[c.Name] = c
}

// Thresholds returns the active cutoffs.
func (o *Oracle) Thresholds() Thresholds {
	return o.thresholds
}

// Evaluate runs the category's procedures against one injection point and
// returns the first positive decision, or nil when nothing fired. A failed
// probe skips that variant and evaluation continues. Caller misuse (an
// unregistered category, an empty payload set) returns an error; transport
// trouble never does.
func (o *Oracle) Evaluate(ctx context.Context, tgt Target, category string, base baseline.Baseline) (*Decision, error) {
	cat, ok := o.categories[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", finding.ErrUnknownCategory, category)
	}
	if cat.Payloads.Empty() {
		return nil, fmt.Errorf("%w: category %q", finding.ErrNoPayloads, category)
	}

	for _, proc := range cat.Procedures {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var d *Decision
		switch proc {
		case ProcError:
			d = o.errorSignature(ctx, tgt, cat)
		case ProcBoolean:
			d = o.booleanPair(ctx, tgt, cat, base)
		case ProcTiming:
			if o.aggressive {
				d = o.timingDelay(ctx, tgt, cat, base)
			}
		case ProcUnion:
			d = o.unionColumns(ctx, tgt, cat, base)
		case ProcOperator:
			d = o.operatorLeak(ctx, tgt, cat)
		case ProcReflect:
			d = o.reflection(ctx, tgt, cat, base)
		case ProcSplit:
			d = o.splitting(ctx, tgt, cat, base)
		case ProcPollution:
			d = o.pollution(ctx, tgt, cat, base)
		default:
			o.log.Warn("unknown procedure skipped", "category", category, "procedure", proc)
		}

		if d != nil {
			d.Category = cat.Name
			d.Parameter = tgt.Param
			d.Severity = cat.Severity
			d.Recommendation = cat.Recommendation
			return d, nil
		}
	}
	return nil, nil
}

func (o *Oracle) probe(ctx context.Context, tgt Target, cat *Category, payload string) probe.Result {
	point := tgt.Point
	if point == "" {
		point = cat.Point
	}
	return o.client.Do(ctx, probe.Request{
		Method:  tgt.Method,
		URL:     tgt.URL,
		Param:   tgt.Param,
		Point:   point,
		Payload: payload,
	})
}

func (o *Oracle) errorSignature(ctx context.Context, tgt Target, cat *Category) *Decision {
	for _, p := range cat.Payloads.Errors {
		res := o.probe(ctx, tgt, cat, p)
		if res.Failed() {
			continue
		}
		if sig, ok := cat.MatchFingerprint(res.Body); ok {
			return &Decision{
				Technique:      "error-based",
				Rationale:      ProcError,
				Payload:        p,
				Evidence:       sig,
				ObservedStatus: res.StatusCode,
				ObservedLen:    len(res.Body),
			}
		}
	}
	return nil
}

// booleanPair probes a truthy and a falsy variant of the same expression.
// A vulnerable parameter makes the branches diverge from each other while
// at least one still resembles the baseline page (or the statuses split).
func (o *Oracle) booleanPair(ctx context.Context, tgt Target, cat *Category, base baseline.Baseline) *Decision {
	if base.Failed() {
		return nil
	}
	t := o.thresholds
	for _, pair := range cat.Payloads.BooleanPairs {
		truthy := o.probe(ctx, tgt, cat, pair.True)
		if truthy.Failed() {
			continue
		}
		falsy := o.probe(ctx, tgt, cat, pair.False)
		if falsy.Failed() {
			continue
		}

		simTF := diff.Similarity(truthy.Body, falsy.Body)
		if simTF >= t.BooleanDivergence {
			continue
		}
		simTB := diff.Similarity(truthy.Body, base.BodyPrefix)
		simFB := diff.Similarity(falsy.Body, base.BodyPrefix)
		if simTB > t.BaselineAffinity || simFB > t.BaselineAffinity || truthy.StatusCode != falsy.StatusCode {
			return &Decision{
				Technique: "boolean-blind",
				Rationale: ProcBoolean,
				Payload:   pair.True,
				Evidence: fmt.Sprintf("branch similarity %.2f, baseline affinity %.2f/%.2f, status %d/%d",
					simTF, simTB, simFB, truthy.StatusCode, falsy.StatusCode),
				ObservedStatus: truthy.StatusCode,
				ObservedLen:    len(truthy.Body),
			}
		}
	}
	return nil
}

func (o *Oracle) timingDelay(ctx context.Context, tgt Target, cat *Category, base baseline.Baseline) *Decision {
	for _, tp := range cat.Payloads.Timed {
		res := o.probe(ctx, tgt, cat, tp.Payload)
		if res.Failed() {
			continue
		}
		if timing.FixedDelay(base.Latency, res.Latency, o.thresholds.Delay) {
			return &Decision{
				Technique: "time-based",
				Rationale: ProcTiming,
				Payload:   tp.Payload,
				Evidence: fmt.Sprintf("baseline %s, observed %s (injected sleep %s)",
					base.Latency.Round(time.Millisecond), res.Latency.Round(time.Millisecond), tp.Sleep),
				ObservedStatus: res.StatusCode,
				ObservedLen:    len(res.Body),
				Delay:          res.Latency - base.Latency,
			}
		}
	}
	return nil
}

// unionColumns walks candidate column counts. A UNION SELECT with the right
// arity merges attacker rows into the page, shifting its content away from
// the baseline without changing the status.
func (o *Oracle) unionColumns(ctx context.Context, tgt Target, cat *Category, base baseline.Baseline) *Decision {
	if base.Failed() {
		return nil
	}
	for _, up := range cat.Payloads.Union {
		res := o.probe(ctx, tgt, cat, up.Payload)
		if res.Failed() || res.StatusCode != base.StatusCode {
			continue
		}
		sim := diff.Similarity(res.Body, base.BodyPrefix)
		if sim < o.thresholds.UnionDivergence {
			return &Decision{
				Technique:      fmt.Sprintf("union-based (cols~%d)", up.Columns),
				Rationale:      ProcUnion,
				Payload:        up.Payload,
				Evidence:       fmt.Sprintf("baseline similarity %.2f with unchanged status %d", sim, res.StatusCode),
				ObservedStatus: res.StatusCode,
				ObservedLen:    len(res.Body),
			}
		}
	}
	return nil
}

// operatorLeak checks whether query operators pass through to the response,
// which happens when user input is spliced into a datastore query unquoted.
func (o *Oracle) operatorLeak(ctx context.Context, tgt Target, cat *Category) *Decision {
	for _, p := range cat.Payloads.Operators {
		res := o.probe(ctx, tgt, cat, p)
		if res.Failed() {
			continue
		}
		for _, hint := range cat.OperatorHints {
			if loc := hint.FindStringIndex(res.Body); loc != nil {
				return &Decision{
					Technique:      "operator-leak",
					Rationale:      ProcOperator,
					Payload:        p,
					Evidence:       snippet(res.Body, loc[0]),
					ObservedStatus: res.StatusCode,
					ObservedLen:    len(res.Body),
				}
			}
		}
	}
	return nil
}

// reflection submits payloads carrying a unique marker (or a template
// expression with a known evaluation) and checks the response echoes the
// expected output without the payload text itself.
func (o *Oracle) reflection(ctx context.Context, tgt Target, cat *Category, base baseline.Baseline) *Decision {
	for _, rp := range cat.Payloads.Reflective {
		res := o.probe(ctx, tgt, cat, rp.Payload)
		if res.Failed() {
			continue
		}
		if !strings.Contains(res.Body, rp.Marker) {
			continue
		}
		if rp.Evaluated && strings.Contains(res.Body, rp.Payload) {
			// The raw payload echoed back verbatim: reflection, not
			// evaluation. Template engines strip the expression.
			continue
		}
		evidence := fmt.Sprintf("marker %q echoed", rp.Marker)
		if !base.Failed() {
			sim := diff.Similarity(res.Body, base.BodyPrefix)
			if sim >= o.thresholds.ReflectDivergence && !rp.Evaluated {
				continue
			}
			evidence = fmt.Sprintf("marker %q echoed, baseline similarity %.2f", rp.Marker, sim)
		}
		return &Decision{
			Technique:      rp.Technique,
			Rationale:      ProcReflect,
			Payload:        rp.Payload,
			Evidence:       evidence,
			ObservedStatus: res.StatusCode,
			ObservedLen:    len(res.Body),
		}
	}
	return nil
}

// snippet returns a bounded window of body around pos for evidence fields.
func snippet(body string, pos int) string {
	const window = 80
	start := pos - window/2
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > len(body) {
		end = len(body)
	}
	return strings.TrimSpace(body[start:end])
}
