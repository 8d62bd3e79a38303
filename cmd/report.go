package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/grantbook"
	"github.com/etnz/grantbook/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	start  string
	end    string
	grants string
	plain  bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "report expenses over a date range" }
func (*reportCmd) Usage() string {
	return `grb report -s <start_date> [-d <end_date>] [-g <grant-id>[,<grant-id>...]] [-plain]

  Lists every expense dated within the inclusive range, joined with its
  parent grant, sorted by date. The report is rendered as markdown for the
  terminal; use -plain to get the raw markdown.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "The start date of the range.")
	f.StringVar(&c.end, "d", grantbook.Today().String(), "The end date of the range.")
	f.StringVar(&c.grants, "g", "", "Comma-separated grant ids to filter on.")
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of rendering it.")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.start == "" {
		return fail(fmt.Errorf("report requires a start date (-s)"))
	}
	start, err := grantbook.ParseDate(c.start)
	if err != nil {
		return fail(err)
	}
	end, err := grantbook.ParseDate(c.end)
	if err != nil {
		return fail(err)
	}

	var grantIDs []string
	if c.grants != "" {
		for _, id := range strings.Split(c.grants, ",") {
			if id = strings.TrimSpace(id); id != "" {
				grantIDs = append(grantIDs, id)
			}
		}
	}

	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	rows, err := store.ExpensesByDateRange(start, end, grantIDs...)
	if err != nil {
		return fail(err)
	}

	report := renderer.NewExpenseReport(grantbook.NewRange(start, end), rows)
	markdown := renderer.RenderExpenseReport(report)
	if c.plain {
		fmt.Print(markdown)
		return subcommands.ExitSuccess
	}
	out, err := renderer.Terminal(markdown)
	if err != nil {
		// Fall back to the raw markdown on rendering trouble.
		fmt.Print(markdown)
		return subcommands.ExitSuccess
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}
