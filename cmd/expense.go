package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/grantbook"
	"github.com/google/subcommands"
)

type expenseAddCmd struct {
	grantID     string
	description string
	amount      float64
	category    string
	date        string
	notes       string
}

func (*expenseAddCmd) Name() string     { return "expense-add" }
func (*expenseAddCmd) Synopsis() string { return "record an expense against a grant" }
func (*expenseAddCmd) Usage() string {
	return `grb expense-add -grant <grant-id> -description <text> -amount <amount> -category <label> [-date <date>] [-notes <text>]

  The category label should match one of the grant's budget category labels;
  the book does not enforce the match.
`
}

func (c *expenseAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.grantID, "grant", "", "Grant id.")
	f.StringVar(&c.description, "description", "", "What the money was spent on.")
	f.Float64Var(&c.amount, "amount", 0, "Spent amount.")
	f.StringVar(&c.category, "category", "", "Budget category label.")
	f.StringVar(&c.date, "date", grantbook.Today().String(), "Expense date (YYYY-MM-DD).")
	f.StringVar(&c.notes, "notes", "", "Optional notes.")
}

func (c *expenseAddCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	date, err := grantbook.ParseDate(c.date)
	if err != nil {
		return fail(err)
	}
	e := grantbook.Expense{
		GrantID:     c.grantID,
		Description: c.description,
		Amount:      grantbook.M(c.amount, ""),
		Category:    c.category,
		Date:        date,
		Notes:       c.notes,
	}

	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	stored, err := store.CreateExpense(e)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded expense %s of %s on %s\n", stored.ID, stored.Amount, stored.Date)
	return subcommands.ExitSuccess
}

type expenseUpdateCmd struct {
	id          string
	description string
	amount      float64
	category    string
	date        string
	notes       string
}

func (*expenseUpdateCmd) Name() string     { return "expense-update" }
func (*expenseUpdateCmd) Synopsis() string { return "update fields of an existing expense" }
func (*expenseUpdateCmd) Usage() string {
	return `grb expense-update -id <expense-id> [-description <text>] [-amount <amount>] [-category <label>] [-date <date>] [-notes <text>]

  Only the flags explicitly set are merged onto the stored expense.
`
}

func (c *expenseUpdateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Expense id.")
	f.StringVar(&c.description, "description", "", "What the money was spent on.")
	f.Float64Var(&c.amount, "amount", 0, "Spent amount.")
	f.StringVar(&c.category, "category", "", "Budget category label.")
	f.StringVar(&c.date, "date", "", "Expense date (YYYY-MM-DD).")
	f.StringVar(&c.notes, "notes", "", "Optional notes.")
}

func (c *expenseUpdateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		return fail(fmt.Errorf("expense-update requires -id"))
	}

	var patch grantbook.ExpensePatch
	var err error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "description":
			patch.Description = &c.description
		case "amount":
			m := grantbook.M(c.amount, "")
			patch.Amount = &m
		case "category":
			patch.Category = &c.category
		case "date":
			var d grantbook.Date
			if d, err = grantbook.ParseDate(c.date); err == nil {
				patch.Date = &d
			}
		case "notes":
			patch.Notes = &c.notes
		}
	})
	if err != nil {
		return fail(err)
	}

	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	e, err := store.UpdateExpense(c.id, patch)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Updated expense %s of %s on %s\n", e.ID, e.Amount, e.Date)
	return subcommands.ExitSuccess
}

type expenseDeleteCmd struct {
	id string
}

func (*expenseDeleteCmd) Name() string     { return "expense-delete" }
func (*expenseDeleteCmd) Synopsis() string { return "delete an expense" }
func (*expenseDeleteCmd) Usage() string {
	return `grb expense-delete -id <expense-id>
`
}

func (c *expenseDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Expense id.")
}

func (c *expenseDeleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		return fail(fmt.Errorf("expense-delete requires -id"))
	}
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	e, err := store.DeleteExpense(c.id)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Deleted expense %s of %s\n", e.ID, e.Amount)
	return subcommands.ExitSuccess
}
