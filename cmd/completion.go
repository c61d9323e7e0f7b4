package cmd

import (
	"flag"

	"github.com/etnz/stocklog/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors complete the values of well known flags, other flags accept anything.
var flagPredictors = map[string]complete.Predictor{
	"config": predict.Files("*.toml"),
	"ledger": predict.Files("*"),
	"o":      predict.Files("*"),
	"type":   predict.Set{"buy", "sell", "dividend"},
	"format": predict.Set{"json", "csv", "jsonl"},
}

// Completion returns the shell completion tree of the commands registered in c.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flags(c.VisitAll),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		sub := &complete.Command{Flags: flags(fs.VisitAll)}
		switch cmd.Name() {
		case "import":
			sub.Args = predict.Files("*")
		case "topic":
			sub.Args = predict.Set(docs.Names())
		}
		root.Sub[cmd.Name()] = sub
	})
	return root
}

func flags(visit func(func(*flag.Flag))) map[string]complete.Predictor {
	out := make(map[string]complete.Predictor)
	visit(func(f *flag.Flag) {
		if p, ok := flagPredictors[f.Name]; ok {
			out[f.Name] = p
			return
		}
		if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
			out[f.Name] = predict.Nothing
			return
		}
		out[f.Name] = predict.Something
	})
	return out
}
