// Command cst tracks portfolios of stocks and crypto-currencies.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/cryptostock/cmd"
	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	app := new(cmd.App)
	cmd.Register(commander, app)

	// exits when the shell asks for completions.
	cmd.Completion(commander, flag.CommandLine).Complete(name)

	flag.Parse()

	ctx := context.Background()
	if err := app.Setup(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}
	status := commander.Execute(ctx)
	if err := app.Close(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(int(status))
}
