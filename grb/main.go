package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/grantbook/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	sub := make(map[string]*complete.Command, len(cmd.Commands))
	for _, c := range cmd.Commands {
		commander.Register(c, "")
		sub[c.Name()] = &complete.Command{}
	}

	// Shell completion of the command tree and global flags. This is a no-op
	// outside of a completion request.
	completion := &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"book-file":     predict.Files("*.json"),
			"budget-policy": predict.Set{"warn", "ignore", "strict"},
		},
	}
	completion.Complete(path.Base(os.Args[0]))

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
