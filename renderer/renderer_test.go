package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/etnz/grantbook"
)

func reportFixture() *ExpenseReport {
	r := grantbook.NewRange(
		grantbook.NewDate(2025, time.January, 1),
		grantbook.NewDate(2025, time.January, 31),
	)
	g := grantbook.Grant{ID: "g1", Title: "Deep Learning", Agency: "NSF", Number: "NSF-001"}
	rows := []grantbook.ExpenseWithGrant{
		{
			Expense: grantbook.Expense{
				GrantID:     "g1",
				Description: "GPU time",
				Category:    "Materials",
				Amount:      grantbook.M(1200, ""),
				Date:        grantbook.NewDate(2025, time.January, 15),
			},
			Grant: g,
		},
		{
			Expense: grantbook.Expense{
				GrantID:     "g1",
				Description: "Conference fee",
				Category:    "Travel",
				Amount:      grantbook.M(300, ""),
				Date:        grantbook.NewDate(2025, time.January, 20),
			},
			Grant: g,
		},
	}
	return NewExpenseReport(r, rows)
}

func TestNewExpenseReport_Total(t *testing.T) {
	rep := reportFixture()
	if !rep.Total.Equal(grantbook.M(1500, "")) {
		t.Errorf("Total = %s, want 1500", rep.Total)
	}
}

func TestRenderExpenseReport(t *testing.T) {
	md := RenderExpenseReport(reportFixture())

	if strings.Contains(md, "template") {
		t.Fatalf("report leaked a template error:\n%s", md)
	}

	// The report must be well-formed markdown with a single level-1 heading
	// naming the range.
	source := []byte(md)
	root := goldmark.DefaultParser().Parse(gtext.NewReader(source))
	var headings []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			var sb strings.Builder
			for c := h.FirstChild(); c != nil; c = c.NextSibling() {
				if tn, ok := c.(*ast.Text); ok {
					sb.Write(tn.Segment.Value(source))
				}
			}
			headings = append(headings, sb.String())
		}
		return ast.WalkContinue, nil
	})
	if len(headings) != 1 {
		t.Fatalf("headings = %v, want exactly one", headings)
	}
	if want := "Expenses 2025-01-01..2025-01-31"; headings[0] != want {
		t.Errorf("heading = %q, want %q", headings[0], want)
	}

	// One table row per expense, in ledger order, plus the total line.
	for _, want := range []string{
		"| 2025-01-15 | Deep Learning | Materials | GPU time |",
		"| 2025-01-20 | Deep Learning | Travel | Conference fee |",
		"**Total**:",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report misses %q:\n%s", want, md)
		}
	}
	if strings.Index(md, "GPU time") > strings.Index(md, "Conference fee") {
		t.Error("rows are out of order")
	}
}

func TestRenderExpenseReport_Empty(t *testing.T) {
	rep := NewExpenseReport(grantbook.Range{}, nil)
	md := RenderExpenseReport(rep)
	if !strings.Contains(md, "No expenses in range.") {
		t.Errorf("empty report = %q", md)
	}
	if strings.Contains(md, "| Date |") {
		t.Error("empty report must not carry a table header")
	}
}

func TestTerminal(t *testing.T) {
	out, err := Terminal(RenderExpenseReport(reportFixture()))
	if err != nil {
		t.Fatalf("Terminal() error = %v", err)
	}
	if !strings.Contains(out, "Deep Learning") {
		t.Errorf("terminal rendering dropped content:\n%s", out)
	}
}
