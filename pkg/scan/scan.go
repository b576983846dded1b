// Package scan wires the probe client, baseline cache, oracle, scheduler
// and recorder into a scan session. A Session carries no global state:
// build one per target, run it, read the result.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vantascan/vantascan/pkg/baseline"
	"github.com/vantascan/vantascan/pkg/cmdi"
	"github.com/vantascan/vantascan/pkg/crlf"
	"github.com/vantascan/vantascan/pkg/defaults"
	"github.com/vantascan/vantascan/pkg/finding"
	"github.com/vantascan/vantascan/pkg/hpp"
	"github.com/vantascan/vantascan/pkg/httpclient"
	"github.com/vantascan/vantascan/pkg/jsoni"
	"github.com/vantascan/vantascan/pkg/nosqli"
	"github.com/vantascan/vantascan/pkg/oracle"
	"github.com/vantascan/vantascan/pkg/probe"
	"github.com/vantascan/vantascan/pkg/recorder"
	"github.com/vantascan/vantascan/pkg/scheduler"
	"github.com/vantascan/vantascan/pkg/sqli"
	"github.com/vantascan/vantascan/pkg/ssti"
	"github.com/vantascan/vantascan/pkg/xpathi"
)

// Config describes one scan session.
type Config struct {
	// Target is the URL under test. Required.
	Target string

	// Params are the parameter names to inject into. Required for now;
	// discovery can populate it from a crawled form.
	Params []string

	Method string
	Point  probe.Point

	// Categories selects which vulnerability classes to run. Empty means
	// all built-in categories.
	Categories []string

	Workers    int
	RateLimit  float64
	Aggressive bool

	// Thresholds overrides detection cutoffs. Zero value means defaults.
	Thresholds oracle.Thresholds

	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client

	Logger *slog.Logger
	Sinks  []recorder.Sink
}

// Session is a single scan run. Not reusable: build a new one per target.
type Session struct {
	id  string
	cfg Config
	log *slog.Logger

	client *probe.Client
	cache  *baseline.Cache
	oracle *oracle.Oracle
	sched  *scheduler.Scheduler
	rec    *recorder.Recorder

	categories []string
}

// builtins constructs every shipped category.
func builtins() map[string]*oracle.Category {
	return map[string]*oracle.Category{
		"sqli":   sqli.Category(),
		"nosqli": nosqli.Category(),
		"crlf":   crlf.Category(),
		"hpp":    hpp.Category(),
		"jsoni":  jsoni.Category(),
		"cmdi":   cmdi.Category(),
		"ssti":   ssti.Category(),
		"xpathi": xpathi.Category(),
	}
}

// Categories lists the built-in category names.
func Categories() []string {
	all := builtins()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	return names
}

// workerCount resolves the scheduler size: an explicit value wins (capped
// at the maximum), otherwise aggressive mode selects the larger preset.
func workerCount(cfg Config) int {
	workers := cfg.Workers
	if workers <= 0 {
		if cfg.Aggressive {
			workers = defaults.WorkersAggressive
		} else {
			workers = defaults.WorkersStandard
		}
	}
	if workers > defaults.WorkersMax {
		workers = defaults.WorkersMax
	}
	return workers
}

// New validates cfg and assembles a session.
func New(cfg Config) (*Session, error) {
	if cfg.Target == "" {
		return nil, finding.ErrNoTarget
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = httpclient.Default()
	}
	client := probe.New(httpClient, log)

	thresholds := cfg.Thresholds
	if thresholds == (oracle.Thresholds{}) {
		thresholds = oracle.DefaultThresholds()
	}
	orc := oracle.New(client,
		oracle.WithThresholds(thresholds),
		oracle.WithAggressive(cfg.Aggressive),
		oracle.WithLogger(log),
	)

	all := builtins()
	selected := cfg.Categories
	if len(selected) == 0 {
		selected = Categories()
	}
	for _, name := range selected {
		cat, ok := all[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", finding.ErrUnknownCategory, name)
		}
		orc.Register(cat)
	}

	workers := workerCount(cfg)
	// Zero selects the default; negative disables rate limiting.
	rateLimit := cfg.RateLimit
	if rateLimit == 0 {
		rateLimit = defaults.RateLimitDefault
	}

	id := uuid.NewString()
	return &Session{
		id:     id,
		cfg:    cfg,
		log:    log.With("scan_id", id),
		client: client,
		cache:  baseline.NewCache(client, log),
		oracle: orc,
		sched: scheduler.New(
			scheduler.WithWorkers(workers),
			scheduler.WithRateLimit(rateLimit),
			scheduler.WithLogger(log),
		),
		rec:        recorder.New(log, cfg.Sinks...),
		categories: selected,
	}, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Run probes every (parameter, category) combination and blocks until the
// work finishes or ctx is cancelled. Cancellation returns the findings
// recorded so far along with the context's error.
func (s *Session) Run(ctx context.Context) (finding.ScanResult, error) {
	start := time.Now()

	for _, param := range s.cfg.Params {
		for _, category := range s.categories {
			s.submit(param, category)
		}
	}

	stats := s.sched.RunAll(ctx)
	s.log.Info("scan finished",
		"target", s.cfg.Target,
		"params", len(s.cfg.Params),
		"completed", stats.Completed,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"findings", s.rec.Len(),
	)

	result := finding.ScanResult{
		ScanID:       s.id,
		Target:       s.cfg.Target,
		TestedParams: len(s.cfg.Params),
		StartTime:    start,
		Duration:     time.Since(start),
		Findings:     s.rec.Findings(),
	}
	return result, ctx.Err()
}

func (s *Session) submit(param, category string) {
	s.sched.Submit(category+":"+param, func(ctx context.Context) error {
		base := s.cache.GetOrFetch(ctx, s.baselineKey(param), probe.Request{
			Method: s.cfg.Method,
			URL:    s.cfg.Target,
		})

		d, err := s.oracle.Evaluate(ctx, oracle.Target{
			URL:    s.cfg.Target,
			Param:  param,
			Method: s.cfg.Method,
			Point:  s.cfg.Point,
		}, category, base)
		if err != nil {
			return err
		}
		if d != nil {
			s.rec.Record(ctx, s.toFinding(d, base))
		}
		return nil
	})
}

func (s *Session) baselineKey(param string) string {
	method := s.cfg.Method
	if method == "" {
		method = http.MethodGet
	}
	return method + "|" + s.cfg.Target + "|" + param
}

func (s *Session) toFinding(d *oracle.Decision, base baseline.Baseline) finding.Finding {
	return finding.Finding{
		Category:       d.Category,
		Severity:       d.Severity,
		Target:         s.cfg.Target,
		Parameter:      d.Parameter,
		Technique:      d.Technique,
		Rationale:      string(d.Rationale),
		Evidence:       d.Evidence,
		Payload:        d.Payload,
		BaselineStatus: base.StatusCode,
		BaselineLen:    base.BodyLen,
		ObservedStatus: d.ObservedStatus,
		ObservedLen:    d.ObservedLen,
		Timing:         d.Delay,
		Recommendation: d.Recommendation,
	}
}
