package cmd

import (
	"context"
	"flag"
	"slices"

	"github.com/etnz/cryptostock"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line of the commander for shell
// completion.
func Completion(cdr *subcommands.Commander, global *flag.FlagSet) *complete.Command {
	portfolios := complete.PredictFunc(predictPortfolios)
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(global, nil),
	}
	root.Flags["config"] = predict.Files("*.yaml")
	root.Flags["portfolio-file"] = predict.Files("*.json")

	cdr.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: flagPredictors(fs, map[string]complete.Predictor{"p": portfolios})}
		switch c.Name() {
		case "rename", "delete":
			sub.Args = portfolios
		case "help":
			names := predict.Set{}
			cdr.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) { names = append(names, c.Name()) })
			sub.Args = names
		}
		root.Sub[c.Name()] = sub
	})
	return root
}

// flagPredictors predicts the values of the flags in fs, using known when
// available.
func flagPredictors(fs *flag.FlagSet, known map[string]complete.Predictor) map[string]complete.Predictor {
	res := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := known[f.Name]; ok {
			res[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			res[f.Name] = predict.Nothing
			return
		}
		res[f.Name] = predict.Something
	})
	return res
}

// predictPortfolios returns the names of the portfolios in the default store.
func predictPortfolios(prefix string) []string {
	cfg, err := LoadConfig()
	if err != nil {
		return nil
	}
	b, err := cryptostock.NewJSONFile(cfg.PortfolioFile).Load(context.Background())
	if err != nil {
		return nil
	}
	return slices.Collect(b.Names())
}
