// Package cmd implements the CLI application to manage a grant book.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/etnz/grantbook"
	"github.com/google/subcommands"
)

// Commands lists every subcommand of the application. A main package
// registers them all and executes the user-selected one.
var Commands = []subcommands.Command{
	&grantAddCmd{},
	&grantListCmd{},
	&grantUpdateCmd{},
	&grantDeleteCmd{},

	&expenseAddCmd{},
	&expenseUpdateCmd{},
	&expenseDeleteCmd{},

	&reportCmd{},
	&budgetSetCmd{},
	&importCmd{},
	&fmtCmd{},
	&queryCmd{},
	&assistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var bookFile = flag.String("book-file", "grantbook.json", "Path to the grant book document (JSON)")
var budgetPolicy = flag.String("budget-policy", "warn", "What to do when a grant total diverges from its categories (warn, ignore, strict)")

// openStore creates the store over the app's grant book document.
func openStore() (*grantbook.Store, error) {
	policy, err := grantbook.ParseBudgetPolicy(*budgetPolicy)
	if err != nil {
		return nil, err
	}
	return grantbook.NewStore(*bookFile, policy), nil
}

// fail prints an error and returns the failure exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
