package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vantascan/vantascan/pkg/duration"
)

func TestDefaultReturnsSharedClient(t *testing.T) {
	c1 := Default()
	c2 := Default()
	if c1 != c2 {
		t.Error("expected Default to return the same client instance")
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	client := New(Config{})
	if client.Timeout != duration.HTTPScanning {
		t.Errorf("expected timeout %v, got %v", duration.HTTPScanning, client.Timeout)
	}

	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatal("expected *http.Transport")
	}
	if transport.MaxIdleConns != 100 {
		t.Errorf("expected 100 idle conns, got %d", transport.MaxIdleConns)
	}
}

func TestDefaultConfigSkipsVerification(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.InsecureSkipVerify {
		t.Error("expected default config to skip TLS verification")
	}
}

func TestTimeoutCappedAtMax(t *testing.T) {
	client := New(Config{Timeout: 10 * time.Minute})
	if client.Timeout != duration.HTTPMax {
		t.Errorf("expected timeout capped at %v, got %v", duration.HTTPMax, client.Timeout)
	}
}

func TestRedirectsNotFollowed(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/end", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(DefaultConfig())
	resp, err := client.Get(srv.URL + "/start")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		t.Errorf("expected 302 (redirect not followed), got %d", resp.StatusCode)
	}
	if hits != 1 {
		t.Errorf("expected 1 request, got %d", hits)
	}
}

func TestMalformedProxyIgnored(t *testing.T) {
	client := New(Config{Proxy: "://not-a-url"})
	transport := client.Transport.(*http.Transport)
	if transport.Proxy != nil {
		t.Error("expected malformed proxy to be ignored")
	}
}
