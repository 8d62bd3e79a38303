package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/grantbook/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct{}

func (*assistCmd) Name() string { return "assist" }
func (*assistCmd) Synopsis() string {
	return "suggest a category mapping for raw spreadsheet labels"
}
func (*assistCmd) Usage() string {
	return `grb assist <raw label> [<raw label>...]

  Asks the AI assistant to map each raw spreadsheet category label onto one
  of the book's target labels, and prints the result as raw=Target pairs
  ready for budget-set -map.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

// targetLabels are the fixed labels the assistant maps onto, mirroring the
// semantic types of the structured import.
var targetLabels = []string{
	"PI Salary", "Student Salary", "Travel", "Materials", "Publication", "Tuition", "Indirect", "Other",
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return fail(fmt.Errorf("assist requires at least one raw label"))
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	mapper := agent.NewMapper()
	if err := mapper.Start(ctx, client); err != nil {
		return fail(err)
	}
	mapping, err := mapper.Suggest(ctx, f.Args(), targetLabels)
	if err != nil {
		return fail(err)
	}

	for _, raw := range f.Args() {
		if target, ok := mapping[raw]; ok {
			fmt.Printf("%s=%s\n", raw, target)
		} else {
			fmt.Printf("%s=Other\n", raw)
		}
	}
	return subcommands.ExitSuccess
}
