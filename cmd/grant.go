package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/grantbook"
	"github.com/google/subcommands"
)

type grantAddCmd struct {
	title       string
	agency      string
	number      string
	total       float64
	start       string
	end         string
	status      string
	description string
}

func (*grantAddCmd) Name() string     { return "grant-add" }
func (*grantAddCmd) Synopsis() string { return "create a new grant in the book" }
func (*grantAddCmd) Usage() string {
	return `grb grant-add -title <title> -agency <agency> -number <number> [-total <amount>] [-start <date>] [-end <date>] [-status <status>] [-description <text>]

  Creates a grant with an empty budget category set. Use budget-set to
  declare its categories.
`
}

func (c *grantAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.title, "title", "", "Grant title.")
	f.StringVar(&c.agency, "agency", "", "Funding agency.")
	f.StringVar(&c.number, "number", "", "Award number.")
	f.Float64Var(&c.total, "total", 0, "Total awarded amount.")
	f.StringVar(&c.start, "start", "", "Start date (YYYY-MM-DD).")
	f.StringVar(&c.end, "end", "", "End date (YYYY-MM-DD).")
	f.StringVar(&c.status, "status", string(grantbook.StatusActive), "Status (Active, Completed, Cancelled).")
	f.StringVar(&c.description, "description", "", "Free-text description.")
}

func (c *grantAddCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	status, err := grantbook.ParseGrantStatus(c.status)
	if err != nil {
		return fail(err)
	}
	g := grantbook.Grant{
		Title:       c.title,
		Agency:      c.agency,
		Number:      c.number,
		TotalAmount: grantbook.M(c.total, ""),
		Status:      status,
		Description: c.description,
	}
	if c.start != "" {
		if g.StartDate, err = grantbook.ParseDate(c.start); err != nil {
			return fail(err)
		}
	}
	if c.end != "" {
		if g.EndDate, err = grantbook.ParseDate(c.end); err != nil {
			return fail(err)
		}
	}

	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	stored, err := store.CreateGrant(g)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Created grant %s (%s)\n", stored.Title, stored.ID)
	return subcommands.ExitSuccess
}

type grantListCmd struct{}

func (*grantListCmd) Name() string     { return "grant-list" }
func (*grantListCmd) Synopsis() string { return "list every grant with its expenses joined" }
func (*grantListCmd) Usage() string {
	return `grb grant-list

  Lists every grant, its budget total and the expenses charged against it.
`
}
func (*grantListCmd) SetFlags(_ *flag.FlagSet) {}

func (c *grantListCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	grants, err := store.Grants()
	if err != nil {
		return fail(err)
	}
	for _, g := range grants {
		fmt.Printf("%s  %-30q %s %s  total=%s budget=%s expenses=%d\n",
			g.ID, g.Title, g.Agency, g.Number,
			g.TotalAmount, grantbook.BudgetTotal(g.BudgetCategories), len(g.Expenses))
	}
	if len(grants) == 0 {
		fmt.Fprintln(os.Stderr, "No grants in the book.")
	}
	return subcommands.ExitSuccess
}

type grantUpdateCmd struct {
	id          string
	title       string
	agency      string
	number      string
	total       float64
	start       string
	end         string
	status      string
	description string
}

func (*grantUpdateCmd) Name() string     { return "grant-update" }
func (*grantUpdateCmd) Synopsis() string { return "update fields of an existing grant" }
func (*grantUpdateCmd) Usage() string {
	return `grb grant-update -id <grant-id> [-title <title>] [-agency <agency>] [-number <number>] [-total <amount>] [-start <date>] [-end <date>] [-status <status>] [-description <text>]

  Only the flags explicitly set are merged onto the stored grant.
`
}

func (c *grantUpdateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Grant id.")
	f.StringVar(&c.title, "title", "", "Grant title.")
	f.StringVar(&c.agency, "agency", "", "Funding agency.")
	f.StringVar(&c.number, "number", "", "Award number.")
	f.Float64Var(&c.total, "total", 0, "Total awarded amount.")
	f.StringVar(&c.start, "start", "", "Start date (YYYY-MM-DD).")
	f.StringVar(&c.end, "end", "", "End date (YYYY-MM-DD).")
	f.StringVar(&c.status, "status", "", "Status (Active, Completed, Cancelled).")
	f.StringVar(&c.description, "description", "", "Free-text description.")
}

func (c *grantUpdateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		return fail(fmt.Errorf("grant-update requires -id"))
	}

	// Only flags the user actually set make it into the patch.
	var patch grantbook.GrantPatch
	var err error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "title":
			patch.Title = &c.title
		case "agency":
			patch.Agency = &c.agency
		case "number":
			patch.Number = &c.number
		case "total":
			m := grantbook.M(c.total, "")
			patch.TotalAmount = &m
		case "start":
			var d grantbook.Date
			if d, err = grantbook.ParseDate(c.start); err == nil {
				patch.StartDate = &d
			}
		case "end":
			var d grantbook.Date
			if d, err = grantbook.ParseDate(c.end); err == nil {
				patch.EndDate = &d
			}
		case "status":
			var st grantbook.GrantStatus
			if st, err = grantbook.ParseGrantStatus(c.status); err == nil {
				patch.Status = &st
			}
		case "description":
			patch.Description = &c.description
		}
	})
	if err != nil {
		return fail(err)
	}

	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	g, err := store.UpdateGrant(c.id, patch)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Updated grant %s (%s)\n", g.Title, g.ID)
	return subcommands.ExitSuccess
}

type grantDeleteCmd struct {
	id string
}

func (*grantDeleteCmd) Name() string { return "grant-delete" }
func (*grantDeleteCmd) Synopsis() string {
	return "delete a grant and every expense charged against it"
}
func (*grantDeleteCmd) Usage() string {
	return `grb grant-delete -id <grant-id>

  Removes the grant and cascades the delete to its expenses.
`
}

func (c *grantDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Grant id.")
}

func (c *grantDeleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		return fail(fmt.Errorf("grant-delete requires -id"))
	}
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	g, err := store.DeleteGrant(c.id)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Deleted grant %s (%s) and its expenses\n", g.Title, g.ID)
	return subcommands.ExitSuccess
}
