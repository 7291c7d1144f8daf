package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/etnz/cryptostock"
	"github.com/etnz/cryptostock/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// addCmd buys an equity or a crypto-currency.
type addCmd struct {
	app       *App
	class     cryptostock.AssetClass
	portfolio string
	yes       bool
}

func (c *addCmd) Name() string { return "add-" + c.class.String() }
func (c *addCmd) Synopsis() string {
	return fmt.Sprintf("buy %s of a %s", c.class.Unit(), wordsFor(c.class).asset)
}
func (c *addCmd) Usage() string {
	w := wordsFor(c.class)
	return fmt.Sprintf(`cst %s -p <portfolio> [-y] <symbol> <quantity> <price>

  Buys <quantity> %s of the %s <symbol> at <price> USD per %s.

  The symbol is looked up first and its name displayed for confirmation,
  use -y to skip the confirmation.
`, c.Name(), c.class.Unit(), w.asset, w.unit)
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "portfolio name (required)")
	f.BoolVar(&c.yes, "y", false, "do not ask for confirmation")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		return c.app.usage("-p portfolio is required")
	}
	if f.NArg() != 3 {
		return c.app.usage("%s expects a symbol, a quantity and a price", c.Name())
	}
	q, price, err := parseBuy(c.class, f.Arg(1), f.Arg(2))
	if err != nil {
		return c.app.usage("%v", err)
	}

	var msg string
	err = c.app.update(ctx, func(b *cryptostock.Book) error {
		p, err := b.Get(c.portfolio)
		if err != nil {
			return fmt.Errorf("portfolio '%s': %w", c.portfolio, err)
		}
		msg, err = c.app.buy(ctx, p, c.class, f.Arg(0), q, price, c.yes)
		return err
	})
	if errors.Is(err, cryptostock.ErrCancelled) {
		c.app.printf("Operation cancelled.\n")
		return subcommands.ExitSuccess
	}
	if err != nil {
		return c.app.fail(err)
	}
	c.app.printf("%s\n", msg)
	return subcommands.ExitSuccess
}

// sellCmd sells an equity or a crypto-currency.
type sellCmd struct {
	app       *App
	class     cryptostock.AssetClass
	portfolio string
}

func (c *sellCmd) Name() string { return "sell-" + c.class.String() }
func (c *sellCmd) Synopsis() string {
	return fmt.Sprintf("sell %s of a %s", c.class.Unit(), wordsFor(c.class).asset)
}
func (c *sellCmd) Usage() string {
	w := wordsFor(c.class)
	return fmt.Sprintf(`cst %s -p <portfolio> <symbol> <quantity> <price>

  Sells <quantity> %s of the %s <symbol> at <price> USD per %s, and
  prints the realized P&L.

  Selling all the %s closes the position.
`, c.Name(), c.class.Unit(), w.asset, w.unit, c.class.Unit())
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "portfolio name (required)")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		return c.app.usage("-p portfolio is required")
	}
	if f.NArg() != 3 {
		return c.app.usage("%s expects a symbol, a quantity and a price", c.Name())
	}
	q, price, err := parseSell(c.class, f.Arg(1), f.Arg(2))
	if err != nil {
		return c.app.usage("%v", err)
	}

	var res cryptostock.SellResult
	err = c.app.update(ctx, func(b *cryptostock.Book) error {
		p, err := b.Get(c.portfolio)
		if err != nil {
			return fmt.Errorf("portfolio '%s': %w", c.portfolio, err)
		}
		res, err = p.Sell(c.class, f.Arg(0), q, price)
		return err
	})
	if err != nil {
		return c.app.fail(err)
	}
	c.app.printf("%s\n", sellMessage(res))
	return subcommands.ExitSuccess
}

// showCmd values a portfolio at current prices.
type showCmd struct {
	app       *App
	portfolio string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "value a portfolio at current market prices" }
func (*showCmd) Usage() string {
	return `cst show -p <portfolio>

  Fetches the current price of every position and displays their value,
  their unrealized P&L, and the portfolio totals.

  A price that cannot be fetched is reported, the position is then left out
  of the value totals.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "portfolio name (required)")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		return c.app.usage("-p portfolio is required")
	}
	b, err := c.app.load(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	p, err := b.Get(c.portfolio)
	if err != nil {
		return c.app.fail(fmt.Errorf("portfolio '%s': %w", c.portfolio, err))
	}
	if err := c.app.show(ctx, p); err != nil {
		return c.app.fail(err)
	}
	return subcommands.ExitSuccess
}

// show prints the valuation of p.
func (a *App) show(ctx context.Context, p *cryptostock.Portfolio) error {
	var opts []cryptostock.ValuationOption
	if a.Config != nil {
		opts = append(opts, cryptostock.WithWorkers(a.Config.Workers))
	}
	v, err := cryptostock.NewValuationEngine(a.Oracle, opts...).Valuate(ctx, p)
	if err != nil {
		return err
	}
	for _, r := range v.Failures() {
		a.logger().Warn("incomplete valuation",
			zap.String("portfolio", p.Name()),
			zap.Stringer("class", r.Class),
			zap.String("symbol", r.Symbol),
			zap.Error(r.Err),
		)
	}
	a.printMarkdown(renderer.RenderValuation(renderer.NewValuation(v)))
	return nil
}
