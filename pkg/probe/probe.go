// Package probe issues single HTTP requests with a payload injected at a
// chosen point (query, form body, JSON body, or header) and returns a total
// result: transport failures surface as a status-0 sentinel, never as a
// returned error. Callers check Result.Failed() and move on.
package probe

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vantascan/vantascan/pkg/defaults"
	"github.com/vantascan/vantascan/pkg/httpclient"
	"github.com/vantascan/vantascan/pkg/iohelper"
	"github.com/vantascan/vantascan/pkg/jsonutil"
	"github.com/vantascan/vantascan/pkg/ui"
)

// Point names where a payload is injected into the request.
type Point string

const (
	PointQuery  Point = "query"
	PointForm   Point = "form"
	PointJSON   Point = "json"
	PointHeader Point = "header"
)

// Request describes one probe. Param is the parameter (or header) name the
// payload is bound to; Extra carries additional parameters sent verbatim,
// which pollution-style probes use to repeat a name.
type Request struct {
	Method  string
	URL     string
	Param   string
	Point   Point
	Payload string

	// Extra parameter pairs appended after the payload-bearing one.
	// Duplicate names are preserved in order.
	Extra []Pair

	Header http.Header
}

// Pair is an ordered name/value parameter.
type Pair struct {
	Name, Value string
}

// Result is the total outcome of a probe. StatusCode 0 means the request
// never completed; Err then holds the cause for logging only.
type Result struct {
	StatusCode int
	Body       string
	Header     http.Header
	Latency    time.Duration
	Err        error
}

// Failed reports whether the probe never produced an HTTP response.
func (r Result) Failed() bool {
	return r.StatusCode == 0
}

// Client sends probes over a shared HTTP client.
type Client struct {
	http      *http.Client
	log       *slog.Logger
	userAgent string
}

// New builds a probe client. A nil httpClient selects the shared default,
// and a nil logger discards probe diagnostics.
func New(httpClient *http.Client, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = httpclient.Default()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Client{
		http:      httpClient,
		log:       log,
		userAgent: ui.UserAgent(),
	}
}

// Do executes one probe and always returns a Result. Context cancellation,
// DNS failures, timeouts and malformed targets all yield the status-0
// sentinel rather than an error.
func (c *Client) Do(ctx context.Context, pr Request) Result {
	start := time.Now()

	req, err := c.build(ctx, pr)
	if err != nil {
		c.log.Debug("probe request build failed", "url", pr.URL, "error", err)
		return Result{Err: err, Latency: time.Since(start)}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("probe failed", "url", pr.URL, "param", pr.Param, "error", err)
		return Result{Err: err, Latency: time.Since(start)}
	}
	defer resp.Body.Close()

	body, err := iohelper.ReadBody(resp.Body, iohelper.DefaultMaxBodySize)
	latency := time.Since(start)
	if err != nil {
		c.log.Debug("probe body read failed", "url", pr.URL, "error", err)
		return Result{Err: err, Latency: latency}
	}

	return Result{
		StatusCode: resp.StatusCode,
		Body:       string(body),
		Header:     resp.Header,
		Latency:    latency,
	}
}

func (c *Client) build(ctx context.Context, pr Request) (*http.Request, error) {
	method := pr.Method
	if method == "" {
		method = http.MethodGet
	}

	var (
		target      string
		body        string
		contentType string
		err         error
	)

	// An empty Param means "fetch as-is": the baseline request carries
	// no injection at any point.
	if pr.Param == "" {
		req, err := http.NewRequestWithContext(ctx, method, pr.URL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.userAgent)
		for k, vs := range pr.Header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		return req, nil
	}

	switch pr.Point {
	case PointForm:
		target = pr.URL
		body = encodePairs(pr.Param, pr.Payload, pr.Extra)
		contentType = defaults.ContentTypeForm
		if pr.Method == "" {
			method = http.MethodPost
		}
	case PointJSON:
		target = pr.URL
		// A payload that is itself valid JSON goes over the wire as that
		// value, not as an escaped string. {"$ne": null} must reach the
		// server as an object for operator injection to mean anything.
		var field any = pr.Payload
		if jsonutil.Valid([]byte(pr.Payload)) {
			field = jsonutil.RawMessage(pr.Payload)
		}
		raw, merr := jsonutil.Marshal(map[string]any{pr.Param: field})
		if merr != nil {
			return nil, merr
		}
		body = string(raw)
		contentType = defaults.ContentTypeJSON
		if pr.Method == "" {
			method = http.MethodPost
		}
	case PointHeader:
		target = pr.URL
	default: // PointQuery
		target, err = injectQuery(pr.URL, pr.Param, pr.Payload, pr.Extra)
		if err != nil {
			return nil, err
		}
	}

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	var req *http.Request
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, target, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, target, nil)
	}
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, vs := range pr.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if pr.Point == PointHeader {
		req.Header.Set(pr.Param, pr.Payload)
	}
	return req, nil
}

// injectQuery rebuilds the target URL with param=payload, preserving any
// unrelated query parameters already present. Extra pairs are appended
// raw so duplicate names survive.
func injectQuery(target, param, payload string, extra []Pair) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	vals := u.Query()
	vals.Set(param, payload)
	u.RawQuery = vals.Encode()
	for _, p := range extra {
		u.RawQuery += "&" + url.QueryEscape(p.Name) + "=" + url.QueryEscape(p.Value)
	}
	return u.String(), nil
}

func encodePairs(param, payload string, extra []Pair) string {
	var sb strings.Builder
	sb.WriteString(url.QueryEscape(param))
	sb.WriteString("=")
	sb.WriteString(url.QueryEscape(payload))
	for _, p := range extra {
		sb.WriteString("&")
		sb.WriteString(url.QueryEscape(p.Name))
		sb.WriteString("=")
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}
