package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/tradesim/tradebook/cmd"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")

	// Shell completion, only active when invoked through the completion
	// hooks installed by `complete -C`.
	cmp := &complete.Command{
		Sub: map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{
			"ledger-file": predict.Files("*.jsonl"),
			"account":     predict.Nothing,
			"currency":    predict.Set{"USD", "EUR", "GBP"},
			"quotes-url":  predict.Nothing,
			"quotes-path": predict.Nothing,
		},
	}
	for _, c := range cmd.Commands {
		cmp.Sub[c.Name()] = &complete.Command{}
	}
	cmp.Complete("tb")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
