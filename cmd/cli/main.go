// Command cli is the vantascan entry point: it assembles a scan session
// from flags or a YAML profile, runs it, prints a summary, and writes the
// report in the requested format.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vantascan/vantascan/pkg/config"
	"github.com/vantascan/vantascan/pkg/defaults"
	"github.com/vantascan/vantascan/pkg/finding"
	"github.com/vantascan/vantascan/pkg/httpclient"
	"github.com/vantascan/vantascan/pkg/params"
	"github.com/vantascan/vantascan/pkg/probe"
	"github.com/vantascan/vantascan/pkg/recorder"
	"github.com/vantascan/vantascan/pkg/report"
	"github.com/vantascan/vantascan/pkg/scan"
	"github.com/vantascan/vantascan/pkg/telemetry"
	"github.com/vantascan/vantascan/pkg/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "vantascan:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		flagProfile    = flag.String("profile", "", "YAML scan profile (flags override it)")
		flagTarget     = flag.String("target", "", "target URL")
		flagParams     = flag.String("params", "", "comma-separated parameter names (empty: discover)")
		flagMethod     = flag.String("method", "", "HTTP method for probes")
		flagCategories = flag.String("categories", "", "comma-separated categories (empty: all)")
		flagWorkers    = flag.Int("workers", 0, "concurrent probe tasks")
		flagRate       = flag.Float64("rate", 0, "probes per second (negative: unlimited)")
		flagAggressive = flag.Bool("aggressive", false, "enable timing probes (slow, noisy)")
		flagTimeout    = flag.Duration("timeout", 0, "per-request timeout")
		flagProxy      = flag.String("proxy", "", "proxy URL")
		flagFormat     = flag.String("format", "", "report format: json, html, pdf")
		flagOutput     = flag.String("output", "", "report path (default: stdout)")
		flagMetrics    = flag.Int("metrics-port", 0, "Prometheus metrics port (0: disabled)")
		flagOTLP       = flag.String("otlp-endpoint", "", "OTLP gRPC endpoint for trace export")
		flagVerbose    = flag.Bool("verbose", false, "debug logging")
		flagVersion    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *flagVersion {
		fmt.Println(ui.UserAgent())
		return nil
	}

	cfg := config.Default()
	if *flagProfile != "" {
		loaded, err := config.Load(*flagProfile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	applyFlags(&cfg, *flagTarget, *flagParams, *flagMethod, *flagCategories,
		*flagWorkers, *flagRate, *flagAggressive, *flagTimeout, *flagProxy,
		*flagFormat, *flagOutput, *flagMetrics, *flagOTLP)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *flagVerbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := httpclient.New(httpclient.Config{
		Timeout:            cfg.Timeout.Std(),
		InsecureSkipVerify: cfg.Insecure,
		Proxy:              cfg.Proxy,
	})

	if len(cfg.Params) == 0 {
		cfg.Params = params.Discover(ctx, probe.New(httpClient, log), cfg.Target, log)
		if len(cfg.Params) == 0 {
			return fmt.Errorf("no parameters found on %s; pass -params", cfg.Target)
		}
		log.Info("discovered parameters", "count", len(cfg.Params), "params", strings.Join(cfg.Params, ","))
	}

	var sinks []recorder.Sink
	if cfg.Metrics.Enabled {
		metrics := telemetry.NewMetricsSink(telemetry.MetricsOptions{Port: cfg.Metrics.Port})
		defer metrics.Close()
		sinks = append(sinks, metrics)
	}
	if cfg.Tracing.Enabled {
		traces, err := telemetry.NewTraceSink(ctx, telemetry.TraceOptions{
			Endpoint: cfg.Tracing.Endpoint,
			Insecure: cfg.Tracing.Insecure,
		})
		if err != nil {
			log.Warn("trace export disabled", "error", err)
		} else {
			defer traces.Close(context.Background())
			sinks = append(sinks, traces)
		}
	}

	session, err := scan.New(scan.Config{
		Target:     cfg.Target,
		Params:     cfg.Params,
		Method:     cfg.Method,
		Categories: cfg.Categories,
		Workers:    cfg.Workers,
		RateLimit:  cfg.RateLimit,
		Aggressive: cfg.Aggressive,
		Thresholds: cfg.OracleThresholds(),
		Client:     httpClient,
		Logger:     log,
		Sinks:      sinks,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, ui.TitleStyle.Render(defaults.ToolName)+" "+ui.DimStyle.Render(defaults.Version))
	result, runErr := session.Run(ctx)
	if runErr != nil {
		log.Warn("scan interrupted, reporting partial results", "error", runErr)
	}

	printSummary(os.Stderr, result)
	return writeReport(cfg.Output, result)
}

func applyFlags(cfg *config.Config, target, paramList, method, categories string,
	workers int, rate float64, aggressive bool, timeout time.Duration, proxy,
	format, output string, metricsPort int, otlpEndpoint string) {

	if target != "" {
		cfg.Target = target
	}
	if paramList != "" {
		cfg.Params = splitList(paramList)
	}
	if method != "" {
		cfg.Method = method
	}
	if categories != "" {
		cfg.Categories = splitList(categories)
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if rate != 0 {
		cfg.RateLimit = rate
	}
	if aggressive {
		cfg.Aggressive = true
	}
	if timeout > 0 {
		cfg.Timeout = config.Duration(timeout)
	}
	if proxy != "" {
		cfg.Proxy = proxy
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if output != "" {
		cfg.Output.Path = output
	}
	if metricsPort > 0 {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Port = metricsPort
	}
	if otlpEndpoint != "" {
		cfg.Tracing.Enabled = true
		cfg.Tracing.Endpoint = otlpEndpoint
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printSummary(w io.Writer, res finding.ScanResult) {
	fmt.Fprintf(w, "\n%s %s\n", ui.DimStyle.Render("target"), res.Target)
	fmt.Fprintf(w, "%s %d parameters in %s\n", ui.DimStyle.Render("tested"), res.TestedParams, res.Duration.Round(time.Millisecond))

	if len(res.Findings) == 0 {
		fmt.Fprintln(w, "no findings")
		return
	}
	fmt.Fprintf(w, "%d findings:\n", len(res.Findings))
	for _, f := range res.Findings {
		fmt.Fprintf(w, "  %s %s on %q via %s\n",
			ui.RenderSeverity(f.Severity), f.Category, f.Parameter, f.Technique)
	}
}

func writeReport(out config.Output, res finding.ScanResult) error {
	var w io.Writer = os.Stdout
	if out.Path != "" {
		f, err := os.Create(out.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch out.Format {
	case "html":
		return report.WriteHTML(w, res)
	case "pdf":
		return report.WritePDF(w, res)
	default:
		return report.WriteJSON(w, res)
	}
}
