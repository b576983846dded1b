package report

import (
	"fmt"
	"io"

	gofpdf "github.com/go-pdf/fpdf"

	"github.com/vantascan/vantascan/pkg/defaults"
	"github.com/vantascan/vantascan/pkg/finding"
)

// severityRGB maps each severity to its accent color in the PDF.
var severityRGB = map[finding.Severity][3]int{
	finding.Critical: {179, 0, 60},
	finding.High:     {199, 80, 0},
	finding.Medium:   {154, 123, 0},
	finding.Low:      {44, 108, 176},
	finding.Info:     {102, 102, 102},
}

// WritePDF renders the result as a PDF document: a summary page followed
// by one block per finding.
func WritePDF(w io.Writer, res finding.ScanResult) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s scan report", defaults.ToolName), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, fmt.Sprintf("%s scan report", defaults.ToolName))
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(0, 6, "Target: "+res.Target, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Scan ID: "+res.ScanID, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Parameters tested: %d", res.TestedParams), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Duration: "+res.Duration.String(), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	counts := severityCounts(res.Findings)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.Cell(0, 8, fmt.Sprintf("Findings: %d", len(res.Findings)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	for _, sev := range []finding.Severity{finding.Critical, finding.High, finding.Medium, finding.Low, finding.Info} {
		if counts[sev] == 0 {
			continue
		}
		rgb := severityRGB[sev]
		pdf.SetTextColor(rgb[0], rgb[1], rgb[2])
		pdf.CellFormat(0, 6, fmt.Sprintf("%s: %d", sev, counts[sev]), "", 1, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)

	for i, f := range sorted(res.Findings) {
		pdf.Ln(8)
		rgb := severityRGB[f.Severity]
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(rgb[0], rgb[1], rgb[2])
		pdf.CellFormat(0, 7, fmt.Sprintf("%d. [%s] %s via %s", i+1, f.Severity, f.Category, f.Technique), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(40, 40, 40)
		pdf.MultiCell(0, 5, "Parameter: "+f.Parameter, "", "L", false)
		if f.Payload != "" {
			pdf.MultiCell(0, 5, "Payload: "+f.Payload, "", "L", false)
		}
		pdf.MultiCell(0, 5, "Evidence: "+f.Evidence, "", "L", false)
		if f.Recommendation != "" {
			pdf.MultiCell(0, 5, "Remediation: "+f.Recommendation, "", "L", false)
		}
	}

	return pdf.Output(w)
}
