package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/pnl/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])
	// exits when invoked by the shell for completion.
	completion().Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for the shell.
func completion() *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, c := range cmd.Commands() {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: flagPredictors(fs)}
		if c.Name() == "import" {
			sub.Args = predict.Files("*.json")
		}
		root.Sub[c.Name()] = sub
	}
	return root
}

// flagPredictors guesses what each flag expects from its name and default value.
func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	res := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch {
		case f.Name == "ledger":
			res[f.Name] = predict.Files("*.jsonl")
		case f.Name == "market", f.Name == "o":
			res[f.Name] = predict.Files("*")
		case f.Name == "config":
			res[f.Name] = predict.Files("*.yaml")
		case f.Name == "db":
			res[f.Name] = predict.Files("*.db")
		case f.Name == "format":
			res[f.Name] = predict.Set{"json", "md"}
		case f.Name == "log-level":
			res[f.Name] = predict.Set{"debug", "info", "warn", "error", "disabled"}
		case f.DefValue == "true", f.DefValue == "false":
			res[f.Name] = predict.Nothing
		default:
			res[f.Name] = predict.Something
		}
	})
	return res
}
