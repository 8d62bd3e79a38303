package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"
)

type queryCmd struct {
	path string
}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "evaluate a JSONPath expression against the book" }
func (*queryCmd) Usage() string {
	return `grb query -p <jsonpath>

  Evaluates the expression against the raw grant book document and prints
  the result as JSON.

Usage Examples:
# List every grant title.
$ grb query -p '$.grants[*].title'
# Total amount of the first grant.
$ grb query -p '$.grants[0].totalAmount'
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "p", "", "JSONPath expression.")
}

func (c *queryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.path == "" {
		return fail(fmt.Errorf("query requires a JSONPath expression (-p)"))
	}

	data, err := os.ReadFile(*bookFile)
	if err != nil {
		return fail(fmt.Errorf("cannot read grant book %q: %w", *bookFile, err))
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fail(fmt.Errorf("cannot parse grant book %q: %w", *bookFile, err))
	}

	result, err := jsonpath.Get(c.path, doc)
	if err != nil {
		return fail(fmt.Errorf("invalid JSONPath %q: %w", c.path, err))
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fail(err)
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}
