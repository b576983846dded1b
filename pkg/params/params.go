// Package params discovers injectable parameter names for a target:
// names already present in the query string, plus input fields mined from
// HTML forms on the page.
package params

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/vantascan/vantascan/pkg/probe"
)

// skipInputs are field names that carry framework state, not user data.
// Injecting into them wastes probes and can invalidate the session.
var skipInputs = map[string]bool{
	"csrf_token":          true,
	"csrfmiddlewaretoken": true,
	"_token":              true,
	"__viewstate":         true,
	"__eventvalidation":   true,
	"authenticity_token":  true,
}

// FromURL extracts parameter names from the target's query string.
func FromURL(target string) []string {
	u, err := url.Parse(target)
	if err != nil {
		return nil
	}
	names := make([]string, 0, 4)
	for name := range u.Query() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Discover fetches the target and returns the union of query-string
// parameters and form input names found in the page. The result is sorted
// and deduplicated; a fetch failure degrades to the query-string names.
func Discover(ctx context.Context, client *probe.Client, target string, log *slog.Logger) []string {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	seen := make(map[string]bool)
	for _, n := range FromURL(target) {
		seen[n] = true
	}

	res := client.Do(ctx, probe.Request{URL: target})
	if res.Failed() {
		log.Debug("parameter discovery fetch failed", "target", target, "error", res.Err)
	} else {
		for _, n := range formInputs(res.Body) {
			seen[n] = true
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// formInputs walks the document tree collecting input, select and textarea
// names, skipping buttons and anti-CSRF state fields.
func formInputs(body string) []string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var names []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "input", "select", "textarea":
				if name, ok := injectableField(n); ok {
					names = append(names, name)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return names
}

func injectableField(n *html.Node) (string, bool) {
	var name, typ string
	for _, a := range n.Attr {
		switch a.Key {
		case "name":
			name = a.Val
		case "type":
			typ = strings.ToLower(a.Val)
		}
	}
	if name == "" || skipInputs[strings.ToLower(name)] {
		return "", false
	}
	switch typ {
	case "submit", "button", "image", "reset", "file":
		return "", false
	}
	return name, true
}
