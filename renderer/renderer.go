// Package renderer builds markdown reports over the grant book and renders
// them for the terminal.
package renderer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/grantbook"
)

// ExpenseReport is the data behind the date-ranged expense report.
type ExpenseReport struct {
	Range grantbook.Range
	Rows  []grantbook.ExpenseWithGrant
	Total grantbook.Money
}

// NewExpenseReport assembles a report over pre-filtered, pre-sorted rows.
func NewExpenseReport(r grantbook.Range, rows []grantbook.ExpenseWithGrant) *ExpenseReport {
	return &ExpenseReport{
		Range: r,
		Rows:  rows,
		Total: grantbook.TotalAmount(rows),
	}
}

const expenseReportTemplate = `# Expenses {{.Range}}

{{if .Rows -}}
| Date | Grant | Category | Description | Amount |
|---|---|---|---|---:|
{{range .Rows -}}
| {{.Date}} | {{.Grant.Title}} | {{.Category}} | {{.Description}} | {{.Amount}} |
{{end}}
**Total**: {{.Total}} across {{len .Rows}} expenses.
{{- else -}}
No expenses in range.
{{- end}}
`

// RenderExpenseReport renders the report to a markdown string.
func RenderExpenseReport(r *ExpenseReport) string {
	return render("expenseReport", expenseReportTemplate, r)
}

// render executes a named template over data. A template error is rendered
// into the output rather than silently dropped.
func render(name, text string, data any) string {
	t, err := template.New(name).Parse(text)
	if err != nil {
		return fmt.Sprintf("template %q is invalid: %v", name, err)
	}
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return fmt.Sprintf("template %q failed: %v", name, err)
	}
	return sb.String()
}

// Terminal renders a markdown string for terminal display.
func Terminal(markdown string) (string, error) {
	out, err := glamour.Render(markdown, "auto")
	if err != nil {
		return "", fmt.Errorf("cannot render markdown: %w", err)
	}
	return out, nil
}
