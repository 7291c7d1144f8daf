package renderer

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/etnz/cryptostock"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

func testValuation(t *testing.T) *cryptostock.Valuation {
	t.Helper()
	p, err := cryptostock.NewPortfolio("Main")
	if err != nil {
		t.Fatal(err)
	}
	orders := []cryptostock.Order{
		{Class: cryptostock.Equity, Symbol: "AAPL", Quantity: cryptostock.Q(10), Price: cryptostock.M(160), Confirmed: true},
		{Class: cryptostock.Crypto, Symbol: "BTC", Quantity: cryptostock.Q(0.00012), Price: cryptostock.M(30000), Confirmed: true},
		{Class: cryptostock.Crypto, Symbol: "DOGE", Quantity: cryptostock.Q(1000), Price: cryptostock.M(0.1), Confirmed: true},
	}
	for _, o := range orders {
		if _, err := p.Add(o); err != nil {
			t.Fatalf("Add(%v) unexpected error: %v", o, err)
		}
	}
	if _, err := p.Sell(cryptostock.Equity, "AAPL", cryptostock.Q(3), cryptostock.M(200)); err != nil {
		t.Fatal(err)
	}

	prices := map[string]float64{"AAPL": 180, "BTC": 40000}
	oracle := cryptostock.PriceFunc(func(_ context.Context, class cryptostock.AssetClass, symbol string) (cryptostock.Money, error) {
		price, ok := prices[symbol]
		if !ok {
			return cryptostock.Money{}, fmt.Errorf("%s %s: %w", class, symbol, cryptostock.ErrPriceUnavailable)
		}
		return cryptostock.M(price), nil
	})
	at := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	v, err := cryptostock.NewValuationEngine(oracle, cryptostock.WithClock(func() time.Time { return at })).Valuate(context.Background(), p)
	if err != nil {
		t.Fatalf("Valuate() unexpected error: %v", err)
	}
	return v
}

func TestNewValuation(t *testing.T) {
	v := NewValuation(testValuation(t))

	if len(v.Positions) != 3 {
		t.Fatalf("NewValuation() positions = %d, want 3", len(v.Positions))
	}
	if got := v.Positions[0]; got.Symbol != "AAPL" || got.Unit != "shares" || !got.Priced || !got.HasPct {
		t.Errorf("AAPL position = %+v", got)
	}
	if got := v.Positions[1].Quantity.Format(); got != "0.00012" {
		t.Errorf("BTC quantity = %q, want %q", got, "0.00012")
	}
	if len(v.Failures) != 1 || v.Failures[0].Symbol != "DOGE" || v.Failures[0].Class != "crypto" {
		t.Errorf("NewValuation() failures = %v, want DOGE", v.Failures)
	}

	md := RenderValuation(v)
	for _, want := range []string{
		"| DOGE | 1000.00 units | n/a | n/a | $0.10 | n/a | n/a |",
		"- Total portfolio value for 'Main': $1,264.80",
		"- Total realized gain/loss for 'Main': $120.00",
		"- DOGE (crypto): crypto DOGE: price unavailable",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("RenderValuation() does not contain %q:\n%s", want, md)
		}
	}
}

// tableRows returns the number of body rows of every table in the markdown.
func tableRows(t *testing.T, md string) []int {
	t.Helper()
	parser := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()
	root := parser.Parse(text.NewReader([]byte(md)))

	var rows []int
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if table, ok := n.(*extast.Table); ok {
			count := 0
			for c := table.FirstChild(); c != nil; c = c.NextSibling() {
				if _, ok := c.(*extast.TableRow); ok {
					count++
				}
			}
			rows = append(rows, count)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("failed to walk markdown: %v", err)
	}
	return rows
}

func TestRenderedTablesParse(t *testing.T) {
	v := NewValuation(testValuation(t))
	if got := tableRows(t, RenderValuation(v)); len(got) != 1 || got[0] != 3 {
		t.Errorf("RenderValuation() tables = %v, want one table of 3 rows", got)
	}

	b := cryptostock.NewBook()
	b.Create("Main")
	b.Create("Kids")
	b.Create("Savings")
	if got := tableRows(t, RenderPortfolios(NewPortfolios(b))); len(got) != 1 || got[0] != 3 {
		t.Errorf("RenderPortfolios() tables = %v, want one table of 3 rows", got)
	}

	empty := &Valuation{Name: "Empty"}
	md := RenderValuation(empty)
	if got := tableRows(t, md); len(got) != 0 {
		t.Errorf("RenderValuation(empty) tables = %v, want none", got)
	}
	if !strings.Contains(md, "This portfolio holds no position.") {
		t.Errorf("RenderValuation(empty) = %q", md)
	}
	if got := RenderPortfolios(&Portfolios{}); got != "No portfolio yet.\n" {
		t.Errorf("RenderPortfolios(empty) = %q", got)
	}
}

func TestNewPortfolios(t *testing.T) {
	b := cryptostock.NewBook()
	p, _ := b.Create("Main")
	p.Buy(cryptostock.Equity, "AAPL", cryptostock.Q(2), cryptostock.M(100))
	p.Buy(cryptostock.Equity, "MSFT", cryptostock.Q(1), cryptostock.M(300))
	p.Buy(cryptostock.Crypto, "BTC", cryptostock.Q(1), cryptostock.M(30000))
	p.Sell(cryptostock.Equity, "AAPL", cryptostock.Q(1), cryptostock.M(150))
	b.Create("Empty")

	l := NewPortfolios(b)
	if len(l.Portfolios) != 2 {
		t.Fatalf("NewPortfolios() = %d portfolios, want 2", len(l.Portfolios))
	}
	first := l.Portfolios[0]
	if first.Name != "Main" || first.Stocks != 2 || first.Crypto != 1 || !first.RealizedPnL.Equal(cryptostock.M(50)) {
		t.Errorf("NewPortfolios()[0] = %+v", first)
	}
	if l.Portfolios[1].Name != "Empty" {
		t.Errorf("NewPortfolios()[1] = %+v, want Empty", l.Portfolios[1])
	}
}

func TestBoxed(t *testing.T) {
	testCases := []struct {
		msg, want string
	}{
		{"Hello, World!", "+***************+\nHello, World!\n+***************+\n"},
		{"\nPortfolio 'Main' created.\n", "+***************************+\nPortfolio 'Main' created.\n+***************************+\n"},
		{"two\nlines!", "+********+\ntwo\nlines!\n+********+\n"},
	}
	for _, tc := range testCases {
		if got := Boxed(tc.msg); got != tc.want {
			t.Errorf("Boxed(%q) =\n%s\nwant\n%s", tc.msg, got, tc.want)
		}
	}
}
