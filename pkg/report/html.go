package report

import (
	"html/template"
	"io"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/vantascan/vantascan/pkg/defaults"
	"github.com/vantascan/vantascan/pkg/finding"
)

var htmlTemplate = template.Must(
	template.New("report").Funcs(sprig.HtmlFuncMap()).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Tool }} report - {{ .Result.Target }}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin-top: 1em; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; vertical-align: top; }
th { background: #f3f3f3; }
.sev-critical { color: #b3003c; font-weight: bold; }
.sev-high { color: #c75000; font-weight: bold; }
.sev-medium { color: #9a7b00; }
.sev-low { color: #2c6cb0; }
.sev-info { color: #666; }
.meta { color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<h1>{{ .Tool }} scan report</h1>
<p class="meta">
Target: {{ .Result.Target }}<br>
Scan ID: {{ .Result.ScanID }}<br>
Generated: {{ .GeneratedAt.Format "2006-01-02 15:04:05 MST" }}<br>
Parameters tested: {{ .Result.TestedParams }}, duration {{ .Result.Duration }}
</p>

<h2>Findings ({{ len .Findings }})</h2>
{{ if .Findings }}
<table>
<tr><th>Severity</th><th>Category</th><th>Parameter</th><th>Technique</th><th>Evidence</th><th>Remediation</th></tr>
{{ range .Findings }}
<tr>
<td class="sev-{{ .Severity }}">{{ .Severity | toString | upper }}</td>
<td>{{ .Category }}</td>
<td>{{ .Parameter }}</td>
<td>{{ .Technique }}</td>
<td>{{ .Evidence | trunc 200 }}</td>
<td>{{ .Recommendation }}</td>
</tr>
{{ end }}
</table>
{{ else }}
<p>No findings recorded.</p>
{{ end }}
</body>
</html>
`))

type htmlContext struct {
	Tool        string
	Result      finding.ScanResult
	Findings    []finding.Finding
	GeneratedAt time.Time
}

// WriteHTML renders the result as a standalone HTML page.
func WriteHTML(w io.Writer, res finding.ScanResult) error {
	return htmlTemplate.Execute(w, htmlContext{
		Tool:        defaults.ToolName,
		Result:      res,
		Findings:    sorted(res.Findings),
		GeneratedAt: time.Now(),
	})
}
