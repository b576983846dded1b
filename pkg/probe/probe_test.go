package probe

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vantascan/vantascan/pkg/jsonutil"
)

func TestDoQueryInjection(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	c := New(srv.Client(), nil)
	res := c.Do(context.Background(), Request{
		URL:     srv.URL + "/search?page=2",
		Param:   "q",
		Point:   PointQuery,
		Payload: "' OR '1'='1",
	})

	if res.Failed() {
		t.Fatalf("probe failed: %v", res.Err)
	}
	if res.StatusCode != http.StatusOK || res.Body != "ok" {
		t.Errorf("unexpected result: %d %q", res.StatusCode, res.Body)
	}
	if !strings.Contains(gotQuery, "page=2") {
		t.Errorf("existing query parameter dropped: %q", gotQuery)
	}
	if !strings.Contains(gotQuery, "q=") {
		t.Errorf("payload parameter missing: %q", gotQuery)
	}
}

func TestDoFormInjection(t *testing.T) {
	var gotBody, gotCT, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotCT = r.Header.Get("Content-Type")
		gotMethod = r.Method
	}))
	defer srv.Close()

	c := New(srv.Client(), nil)
	res := c.Do(context.Background(), Request{
		URL:     srv.URL,
		Param:   "user",
		Point:   PointForm,
		Payload: "admin'--",
	})

	if res.Failed() {
		t.Fatalf("probe failed: %v", res.Err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("form probe used %s, want POST", gotMethod)
	}
	if gotCT != "application/x-www-form-urlencoded" {
		t.Errorf("content type = %q", gotCT)
	}
	if !strings.Contains(gotBody, "user=admin%27--") {
		t.Errorf("body = %q, payload not encoded", gotBody)
	}
}

func TestDoJSONInjection(t *testing.T) {
	var gotBody, gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotCT = r.Header.Get("Content-Type")
	}))
	defer srv.Close()

	c := New(srv.Client(), nil)
	res := c.Do(context.Background(), Request{
		URL:     srv.URL,
		Param:   "filter",
		Point:   PointJSON,
		Payload: `{"$ne": null}`,
	})

	if res.Failed() {
		t.Fatalf("probe failed: %v", res.Err)
	}
	if gotCT != "application/json" {
		t.Errorf("content type = %q", gotCT)
	}
	if strings.Contains(gotBody, `\"$ne\"`) {
		t.Errorf("body = %q, operator payload escaped into a string", gotBody)
	}
	var decoded map[string]any
	if err := jsonutil.Unmarshal([]byte(gotBody), &decoded); err != nil {
		t.Fatalf("body %q is not valid JSON: %v", gotBody, err)
	}
	obj, ok := decoded["filter"].(map[string]any)
	if !ok {
		t.Fatalf("body = %q, filter is not a JSON object", gotBody)
	}
	if _, ok := obj["$ne"]; !ok {
		t.Errorf("body = %q, $ne operator missing from object", gotBody)
	}
}

func TestDoJSONStringPayload(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
	}))
	defer srv.Close()

	c := New(srv.Client(), nil)
	res := c.Do(context.Background(), Request{
		URL:     srv.URL,
		Param:   "user",
		Point:   PointJSON,
		Payload: `admin' OR '1'='1`,
	})

	if res.Failed() {
		t.Fatalf("probe failed: %v", res.Err)
	}
	var decoded map[string]any
	if err := jsonutil.Unmarshal([]byte(gotBody), &decoded); err != nil {
		t.Fatalf("body %q is not valid JSON: %v", gotBody, err)
	}
	if decoded["user"] != `admin' OR '1'='1` {
		t.Errorf("body = %q, plain payload should stay a string", gotBody)
	}
}

func TestDoHeaderInjection(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Forwarded-For")
	}))
	defer srv.Close()

	c := New(srv.Client(), nil)
	res := c.Do(context.Background(), Request{
		URL:     srv.URL,
		Param:   "X-Forwarded-For",
		Point:   PointHeader,
		Payload: "127.0.0.1' --",
	})

	if res.Failed() {
		t.Fatalf("probe failed: %v", res.Err)
	}
	if gotHeader != "127.0.0.1' --" {
		t.Errorf("header = %q", gotHeader)
	}
}

func TestDoDuplicateParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
	}))
	defer srv.Close()

	c := New(srv.Client(), nil)
	res := c.Do(context.Background(), Request{
		URL:     srv.URL,
		Param:   "id",
		Point:   PointQuery,
		Payload: "1",
		Extra:   []Pair{{Name: "id", Value: "2"}},
	})

	if res.Failed() {
		t.Fatalf("probe failed: %v", res.Err)
	}
	if strings.Count(gotQuery, "id=") != 2 {
		t.Errorf("query = %q, want two id parameters", gotQuery)
	}
}

func TestDoTransportFailureSentinel(t *testing.T) {
	c := New(&http.Client{Timeout: 200 * time.Millisecond}, nil)

	res := c.Do(context.Background(), Request{
		URL:     "http://127.0.0.1:1/unreachable",
		Param:   "q",
		Point:   PointQuery,
		Payload: "x",
	})

	if !res.Failed() {
		t.Fatalf("expected failure sentinel, got status %d", res.StatusCode)
	}
	if res.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", res.StatusCode)
	}
	if res.Err == nil {
		t.Error("expected Err to carry the transport failure")
	}
}

func TestDoCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(srv.Client(), nil)
	res := c.Do(ctx, Request{URL: srv.URL, Param: "q", Payload: "x"})
	if !res.Failed() {
		t.Error("cancelled context should yield the failure sentinel")
	}
}

func TestDoMalformedURL(t *testing.T) {
	c := New(nil, nil)
	res := c.Do(context.Background(), Request{
		URL:     "://not-a-url",
		Param:   "q",
		Payload: "x",
	})
	if !res.Failed() {
		t.Error("malformed URL should yield the failure sentinel, not a panic")
	}
}

func TestDoMeasuresLatency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.Client(), nil)
	res := c.Do(context.Background(), Request{URL: srv.URL, Param: "q", Payload: "x"})
	if res.Latency < 50*time.Millisecond {
		t.Errorf("Latency = %v, want >= 50ms", res.Latency)
	}
}
