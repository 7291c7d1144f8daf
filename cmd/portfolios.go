package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/cryptostock"
	"github.com/etnz/cryptostock/renderer"
	"github.com/google/subcommands"
)

type createCmd struct {
	app *App
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create a new, empty portfolio" }
func (*createCmd) Usage() string {
	return `cst create <name>

  Creates a new portfolio. Portfolio names are unique.
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {}

func (c *createCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage("create expects exactly one portfolio name")
	}
	name := f.Arg(0)
	err := c.app.update(ctx, func(b *cryptostock.Book) error {
		p, err := b.Create(name)
		if err != nil {
			return err
		}
		name = p.Name()
		return nil
	})
	if err != nil {
		return c.app.fail(err)
	}
	c.app.printf("Portfolio '%s' created.\n", name)
	return subcommands.ExitSuccess
}

type listCmd struct {
	app *App
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the portfolios" }
func (*listCmd) Usage() string {
	return `cst list

  Lists the portfolios with their number of positions and their realized P&L.
  Prices are not fetched, use 'cst show' to value a portfolio.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := c.app.load(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	c.app.printMarkdown(renderer.RenderPortfolios(renderer.NewPortfolios(b)))
	return subcommands.ExitSuccess
}

type renameCmd struct {
	app *App
}

func (*renameCmd) Name() string     { return "rename" }
func (*renameCmd) Synopsis() string { return "rename a portfolio" }
func (*renameCmd) Usage() string {
	return `cst rename <old name> <new name>

  Renames a portfolio. The new name must not be used by another portfolio.
`
}

func (c *renameCmd) SetFlags(f *flag.FlagSet) {}

func (c *renameCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return c.app.usage("rename expects the old and the new portfolio names")
	}
	old, name := strings.TrimSpace(f.Arg(0)), strings.TrimSpace(f.Arg(1))
	err := c.app.update(ctx, func(b *cryptostock.Book) error { return b.Rename(old, name) })
	if err != nil {
		return c.app.fail(renameError(old, name, err))
	}
	c.app.printf("Portfolio '%s' renamed to '%s'.\n", old, name)
	return subcommands.ExitSuccess
}

// renameError explains a failed rename the way the menu does.
func renameError(old, name string, err error) error {
	switch {
	case errors.Is(err, cryptostock.ErrPortfolioNotFound):
		return fmt.Errorf("portfolio '%s' does not exist: %w", old, err)
	case errors.Is(err, cryptostock.ErrPortfolioExists):
		return fmt.Errorf("a portfolio with the name '%s' already exists: %w", name, err)
	}
	return err
}

type deleteCmd struct {
	app   *App
	force bool
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a portfolio" }
func (*deleteCmd) Usage() string {
	return `cst delete [-f] <name>

  Deletes a portfolio and all its positions. A portfolio that still holds
  positions is only deleted with -f.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "f", false, "delete the portfolio even if it holds positions")
}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage("delete expects exactly one portfolio name")
	}
	name := strings.TrimSpace(f.Arg(0))
	err := c.app.update(ctx, func(b *cryptostock.Book) error {
		p, err := b.Get(name)
		if err != nil {
			return err
		}
		if n := p.Len(); n > 0 && !c.force {
			return fmt.Errorf("portfolio '%s' holds %d positions, use -f to delete it anyway", name, n)
		}
		return b.Delete(name)
	})
	if err != nil {
		return c.app.fail(err)
	}
	c.app.printf("Portfolio '%s' deleted.\n", name)
	return subcommands.ExitSuccess
}
