package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/grantbook"
	"github.com/google/subcommands"
)

type budgetSetCmd struct {
	grantID     string
	csvFile     string
	amountCol   string
	descCol     string
	categoryCol string
	mapping     string
	keepIDs     bool
}

func (*budgetSetCmd) Name() string { return "budget-set" }
func (*budgetSetCmd) Synopsis() string {
	return "replace a grant's whole budget category set from a CSV sheet"
}
func (*budgetSetCmd) Usage() string {
	return `grb budget-set -grant <grant-id> -csv <file> -amount-col <header> [-description-col <header>] [-category-col <header>] [-map raw=Target,...] [-keep-ids]

  Reads the CSV, normalizes each row through the column mapping and the
  category mapping, and replaces the grant's categories with the result.
  Replacement is total: none of the previous categories survive. Rows whose
  amount is zero or negative are dropped; unmapped categories land on
  "Other". Fresh category ids are assigned unless -keep-ids is set.
`
}

func (c *budgetSetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.grantID, "grant", "", "Grant id.")
	f.StringVar(&c.csvFile, "csv", "", "CSV file with a header row.")
	f.StringVar(&c.amountCol, "amount-col", "", "Header of the amount column (mandatory).")
	f.StringVar(&c.descCol, "description-col", "", "Header of the description column.")
	f.StringVar(&c.categoryCol, "category-col", "", "Header of the category column.")
	f.StringVar(&c.mapping, "map", "", "Category mapping, raw=Target pairs separated by commas.")
	f.BoolVar(&c.keepIDs, "keep-ids", false, "Preserve caller-supplied category ids.")
}

func (c *budgetSetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.grantID == "" || c.csvFile == "" {
		return fail(fmt.Errorf("budget-set requires -grant and -csv"))
	}

	file, err := os.Open(c.csvFile)
	if err != nil {
		return fail(fmt.Errorf("cannot open %q: %w", c.csvFile, err))
	}
	defer file.Close()

	rows, err := grantbook.ReadRows(file)
	if err != nil {
		return fail(err)
	}
	categories, err := grantbook.ParseCategoryMapping(c.mapping)
	if err != nil {
		return fail(err)
	}
	columns := grantbook.ColumnMapping{
		Description: c.descCol,
		Amount:      c.amountCol,
		Category:    c.categoryCol,
	}
	set, err := grantbook.NormalizeCategories(rows, columns, categories)
	if err != nil {
		return fail(err)
	}

	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	if c.keepIDs {
		set, err = store.UpdateBudget(c.grantID, set)
	} else {
		set, err = store.ReplaceBudget(c.grantID, set)
	}
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Replaced budget of grant %s with %d categories, total %s\n",
		c.grantID, len(set), grantbook.BudgetTotal(set))
	return subcommands.ExitSuccess
}
