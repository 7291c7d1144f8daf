// Package cmd implements the CLI application to manage portfolios of stocks
// and crypto-currencies.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/cryptostock"
	"github.com/etnz/cryptostock/config"
	"github.com/etnz/cryptostock/market"
	"github.com/google/subcommands"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// App holds what the subcommands share: configuration, portfolio store,
// market data, and the terminal.
type App struct {
	Config    *config.Config
	Store     cryptostock.PortfolioStore
	Oracle    cryptostock.PriceOracle
	Validator cryptostock.SymbolValidator
	Logger    *zap.Logger

	In       io.Reader
	Out, Err io.Writer
	// Plain prints markdown as is, instead of rendering it for a terminal.
	Plain bool

	scanner  *bufio.Scanner
	provider *sdktrace.TracerProvider
}

// Init wires a to the process terminal and to the services described by cfg.
func (a *App) Init(ctx context.Context, cfg *config.Config) error {
	logger, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	a.Config = cfg
	a.Store = cryptostock.NewJSONFile(cfg.PortfolioFile)
	a.Logger = logger
	a.In, a.Out, a.Err = os.Stdin, os.Stdout, os.Stderr
	a.Plain = !isTerminal(os.Stdout)
	if cfg.Tracing {
		a.provider, err = newTracerProvider(ctx, os.Stderr)
		if err != nil {
			return err
		}
	}
	m := market.New(cfg.Market, market.WithLogger(logger))
	a.Oracle, a.Validator = m, m
	logger.Debug("app ready", zap.String("portfolio_file", cfg.PortfolioFile), zap.Bool("tracing", cfg.Tracing))
	return nil
}

// Close flushes the logs and the traces.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.provider != nil {
		errs = append(errs, a.provider.Shutdown(ctx))
	}
	if a.Logger != nil {
		// syncing stderr fails on some terminals, it is not worth reporting.
		_ = a.Logger.Sync()
	}
	return errors.Join(errs...)
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// load reads the book from the store.
func (a *App) load(ctx context.Context) (*cryptostock.Book, error) {
	b, err := a.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot load portfolios: %w", err)
	}
	return b, nil
}

// save writes the book to the store.
func (a *App) save(ctx context.Context, b *cryptostock.Book) error {
	if err := a.Store.Save(ctx, b); err != nil {
		return fmt.Errorf("cannot save portfolios: %w", err)
	}
	a.logger().Debug("portfolios saved", zap.Int("portfolios", b.Len()))
	return nil
}

// update loads the book, applies f, and saves the book if f succeeded.
func (a *App) update(ctx context.Context, f func(*cryptostock.Book) error) error {
	b, err := a.load(ctx)
	if err != nil {
		return err
	}
	if err := f(b); err != nil {
		return err
	}
	return a.save(ctx, b)
}

// printf prints a message for the user.
func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}

// fail reports err on the error output and returns the matching exit status.
func (a *App) fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// usage reports a usage error.
func (a *App) usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}

// printMarkdown renders md for the terminal, or prints it as is in Plain mode.
func (a *App) printMarkdown(md string) {
	if a.Plain {
		fmt.Fprint(a.Out, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(160))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(a.Out, out)
			return
		}
	}
	a.logger().Debug("cannot render markdown", zap.Error(err))
	fmt.Fprint(a.Out, md)
}

// readLine prompts the user and reads a line of input. It returns io.EOF when
// the input is exhausted.
func (a *App) readLine(prompt string) (string, error) {
	if a.scanner == nil {
		a.scanner = bufio.NewScanner(a.In)
	}
	fmt.Fprint(a.Out, prompt)
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(a.scanner.Text()), nil
}

// confirm asks a yes/no question, only "y" is a yes.
func (a *App) confirm(question string) (bool, error) {
	answer, err := a.readLine(question + " (y/n): ")
	if err != nil {
		return false, err
	}
	return strings.ToLower(answer) == "y", nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
