package cmd

import (
	"context"
	"flag"

	"github.com/etnz/cryptostock"
	"github.com/etnz/cryptostock/config"
	"github.com/google/subcommands"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the YAML configuration file (default is the user config dir cst/config.yaml)")
var portfolioFile = flag.String("portfolio-file", "", "Path to the portfolios JSON file, overrides the configuration")

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&createCmd{app: app}, "portfolios")
	c.Register(&listCmd{app: app}, "portfolios")
	c.Register(&renameCmd{app: app}, "portfolios")
	c.Register(&deleteCmd{app: app}, "portfolios")

	c.Register(&addCmd{app: app, class: cryptostock.Equity}, "positions")
	c.Register(&addCmd{app: app, class: cryptostock.Crypto}, "positions")
	c.Register(&sellCmd{app: app, class: cryptostock.Equity}, "positions")
	c.Register(&sellCmd{app: app, class: cryptostock.Crypto}, "positions")
	c.Register(&showCmd{app: app}, "positions")

	c.Register(&menuCmd{app: app}, "")
}

// LoadConfig loads the configuration and applies the global flags.
// It must be called after flag.Parse().
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *portfolioFile != "" {
		cfg.PortfolioFile = *portfolioFile
	}
	return cfg, nil
}

// Setup loads the configuration and initializes the App.
func (a *App) Setup(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	return a.Init(ctx, cfg)
}
