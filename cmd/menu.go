package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/etnz/cryptostock"
	"github.com/etnz/cryptostock/renderer"
	"github.com/google/subcommands"
)

// menuCmd runs the interactive menu.
type menuCmd struct {
	app *App
}

func (*menuCmd) Name() string     { return "menu" }
func (*menuCmd) Synopsis() string { return "manage portfolios interactively" }
func (*menuCmd) Usage() string {
	return `cst menu

  Runs the interactive portfolio manager. Changes are saved when leaving the
  menu with 'Exit', or when the input ends.
`
}

func (c *menuCmd) SetFlags(f *flag.FlagSet) {}

func (c *menuCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := c.app.load(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	m := &menu{App: c.app, book: b}
	if err := m.run(ctx); err != nil && !errors.Is(err, io.EOF) {
		// the portfolios are saved anyway.
		fmt.Fprintf(c.app.Err, "Error: %v\n", err)
	}
	if err := c.app.save(ctx, b); err != nil {
		return c.app.fail(err)
	}
	c.app.printf("\nPortfolios successfully saved. Exiting Portfolio Manager.\n")
	return subcommands.ExitSuccess
}

// menu is the state of an interactive session.
type menu struct {
	*App
	book *cryptostock.Book
}

const menuChoices = `
Menu:
1. Create a new portfolio
2. Add Stock to a portfolio
3. Add Crypto to a portfolio
4. Sell Stock from a portfolio
5. Sell Crypto from a portfolio
6. View portfolio value
7. Rename a portfolio
8. Exit
`

// run loops over the menu until the user exits or the input ends.
func (m *menu) run(ctx context.Context) error {
	for {
		m.printf("\n* CryptoStock Tracker *\n")
		m.printf("-----------------------------------------------------------------------------------------\n")
		m.printf("Available portfolios:\n")
		for name := range m.book.Names() {
			m.printf("- %s\n", name)
		}
		m.printf("%s", menuChoices)

		line, err := m.readLine("\nEnter your choice in number: ")
		if err != nil {
			return err
		}
		choice, err := strconv.Atoi(line)
		if err != nil {
			m.boxed("Invalid input. Please enter a number.")
			continue
		}

		switch choice {
		case 1:
			err = m.create()
		case 2:
			err = m.withPortfolio(func(p *cryptostock.Portfolio) error { return m.buy(ctx, p, cryptostock.Equity) })
		case 3:
			err = m.withPortfolio(func(p *cryptostock.Portfolio) error { return m.buy(ctx, p, cryptostock.Crypto) })
		case 4:
			err = m.withPortfolio(func(p *cryptostock.Portfolio) error { return m.sell(ctx, p, cryptostock.Equity) })
		case 5:
			err = m.withPortfolio(func(p *cryptostock.Portfolio) error { return m.sell(ctx, p, cryptostock.Crypto) })
		case 6:
			err = m.withPortfolio(func(p *cryptostock.Portfolio) error { return m.view(ctx, p) })
		case 7:
			err = m.rename()
		case 8:
			return nil
		default:
			m.printf("\nInvalid choice. Please try again.\n")
		}
		if err != nil {
			return err
		}
	}
}

func (m *menu) boxed(msg string) {
	m.printf("\n%s", renderer.Boxed(msg))
}

func (m *menu) create() error {
	name, err := m.readLine("\nEnter desired portfolio name: ")
	if err != nil {
		return err
	}
	switch _, err := m.book.Create(name); {
	case errors.Is(err, cryptostock.ErrPortfolioExists):
		m.printf("\nPortfolio '%s' already exists.\n", name)
	case errors.Is(err, cryptostock.ErrEmptyName):
		m.printf("\nPortfolio name cannot be empty.\n")
	case err != nil:
		m.printf("\nError: %v\n", err)
	default:
		m.printf("\nPortfolio '%s' created.\n", name)
	}
	return nil
}

// withPortfolio asks for a portfolio name and calls f with it, if it exists.
func (m *menu) withPortfolio(f func(*cryptostock.Portfolio) error) error {
	name, err := m.readLine("\nEnter the portfolio name: ")
	if err != nil {
		return err
	}
	p, err := m.book.Get(name)
	if err != nil {
		m.printf("\nPortfolio '%s' does not exist.\n", name)
		return nil
	}
	return f(p)
}

// view prints the valuation of p, a failure is only reported.
func (m *menu) view(ctx context.Context, p *cryptostock.Portfolio) error {
	m.printf("\n")
	if err := m.show(ctx, p); err != nil {
		if ctx.Err() != nil {
			return err
		}
		m.printf("Error: %v\n", err)
	}
	return nil
}

// readAmounts asks for a quantity and a price until parse accepts them.
func (m *menu) readAmounts(quantityPrompt, pricePrompt string, parse func(qs, ps string) (cryptostock.Quantity, cryptostock.Money, error)) (cryptostock.Quantity, cryptostock.Money, error) {
	for {
		qs, err := m.readLine(quantityPrompt)
		if err != nil {
			return cryptostock.Quantity{}, cryptostock.Money{}, err
		}
		// validate the quantity alone before asking for the price.
		if _, _, err := parse(qs, "1"); err != nil {
			m.printf("Invalid input: %v. Please try again.\n", err)
			continue
		}
		ps, err := m.readLine(pricePrompt)
		if err != nil {
			return cryptostock.Quantity{}, cryptostock.Money{}, err
		}
		q, price, err := parse(qs, ps)
		if err != nil {
			m.printf("Invalid input: %v. Please try again.\n", err)
			continue
		}
		return q, price, nil
	}
}

func (m *menu) buy(ctx context.Context, p *cryptostock.Portfolio, class cryptostock.AssetClass) error {
	if err := m.view(ctx, p); err != nil {
		return err
	}
	w := wordsFor(class)
	example := map[cryptostock.AssetClass]string{cryptostock.Equity: "AAPL", cryptostock.Crypto: "BTC"}[class]
	symbol, err := m.readLine(fmt.Sprintf("Enter the %s to buy (e.g., %s): ", w.symbol, example))
	if err != nil {
		return err
	}
	q, price, err := m.readAmounts(
		fmt.Sprintf("Enter the number of %s: ", class.Unit()),
		fmt.Sprintf("Enter the buy price per %s in USD: ", w.unit),
		func(qs, ps string) (cryptostock.Quantity, cryptostock.Money, error) { return parseBuy(class, qs, ps) },
	)
	if err != nil {
		return err
	}

	msg, err := m.App.buy(ctx, p, class, symbol, q, price, false)
	switch {
	case errors.Is(err, cryptostock.ErrCancelled):
		msg = "Operation cancelled."
	case errors.Is(err, io.EOF) || ctx.Err() != nil:
		return err
	case err != nil:
		msg = "Error: " + err.Error()
	}
	m.boxed(msg)
	return m.view(ctx, p)
}

func (m *menu) sell(ctx context.Context, p *cryptostock.Portfolio, class cryptostock.AssetClass) error {
	if err := m.view(ctx, p); err != nil {
		return err
	}
	w := wordsFor(class)
	example := map[cryptostock.AssetClass]string{cryptostock.Equity: "AAPL", cryptostock.Crypto: "BTC"}[class]
	symbol, err := m.readLine(fmt.Sprintf("Enter the %s to sell (e.g., %s): ", w.symbol, example))
	if err != nil {
		return err
	}
	q, price, err := m.readAmounts(
		fmt.Sprintf("Enter the number of %s: ", class.Unit()),
		fmt.Sprintf("Enter the sell price per %s in USD: ", w.unit),
		func(qs, ps string) (cryptostock.Quantity, cryptostock.Money, error) { return parseSell(class, qs, ps) },
	)
	if err != nil {
		return err
	}

	res, err := p.Sell(class, symbol, q, price)
	if err != nil {
		m.boxed("Error: " + err.Error())
	} else {
		m.boxed(sellMessage(res))
	}
	return m.view(ctx, p)
}

func (m *menu) rename() error {
	old, err := m.readLine("\nEnter the portfolio name: ")
	if err != nil {
		return err
	}
	if _, err := m.book.Get(old); err != nil {
		m.printf("\nPortfolio '%s' does not exist.\n", old)
		return nil
	}
	name, err := m.readLine("Enter the new portfolio name: ")
	if err != nil {
		return err
	}
	switch err := m.book.Rename(old, name); {
	case errors.Is(err, cryptostock.ErrEmptyName):
		m.printf("\nPortfolio name cannot be empty.\n")
	case errors.Is(err, cryptostock.ErrPortfolioExists):
		m.printf("\nA portfolio with the name '%s' already exists.\n", name)
	case err != nil:
		m.printf("\nError: %v\n", renameError(old, name, err))
	default:
		m.printf("\nPortfolio '%s' renamed to '%s'.\n", old, name)
	}
	return nil
}
