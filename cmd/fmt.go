package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and rewrites the grant book in its canonical form"
}
func (*fmtCmd) Usage() string {
	return `grb fmt

  Reads the whole grant book document and writes it back in a canonical,
  indented form.
`
}

func (*fmtCmd) SetFlags(_ *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	if err := store.Fmt(); err != nil {
		return fail(err)
	}
	fmt.Printf("Formatted %s\n", store.Path())
	return subcommands.ExitSuccess
}
