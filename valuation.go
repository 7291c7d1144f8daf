package cryptostock

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Row is the valuation of a single position.
type Row struct {
	Class       AssetClass
	Symbol      string
	Quantity    Quantity
	AverageCost Money
	RealizedPnL Money

	// Priced is false when the current price could not be retrieved. Price,
	// MarketValue and Unrealized are then zero and Err tells why.
	Priced        bool
	Price         Money
	MarketValue   Money
	Unrealized    Money
	UnrealizedPct Percent
	// HasPct is false when the percentage is undefined (zero cost basis).
	HasPct bool

	Err error
}

// Valuation is the valuation of a portfolio at a point in time.
type Valuation struct {
	Portfolio string
	At        time.Time
	Rows      []Row

	TotalValue      Money
	TotalUnrealized Money
	// TotalRealized only accounts for open positions, a closed position takes
	// its realized P&L with it.
	TotalRealized Money
}

// Failures returns the rows that carry an error.
func (v *Valuation) Failures() []Row {
	var res []Row
	for _, r := range v.Rows {
		if r.Err != nil {
			res = append(res, r)
		}
	}
	return res
}

// ValuationEngine values portfolios with the prices of a PriceOracle.
type ValuationEngine struct {
	oracle  PriceOracle
	workers int
	now     func() time.Time
}

// ValuationOption configures a ValuationEngine.
type ValuationOption func(*ValuationEngine)

// WithWorkers sets the number of concurrent price lookups. Defaults to 4.
func WithWorkers(n int) ValuationOption {
	return func(e *ValuationEngine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithClock sets the clock used to timestamp valuations.
func WithClock(now func() time.Time) ValuationOption {
	return func(e *ValuationEngine) { e.now = now }
}

// NewValuationEngine creates a valuation engine.
func NewValuationEngine(oracle PriceOracle, opts ...ValuationOption) *ValuationEngine {
	e := &ValuationEngine{oracle: oracle, workers: 4, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Valuate computes the market value and profit and loss of every position in
// p, and their totals.
//
// A position whose price cannot be retrieved is reported with an error in its
// row and left out of the value totals; the rest of the report is computed.
// Valuate only fails if ctx is done.
func (e *ValuationEngine) Valuate(ctx context.Context, p *Portfolio) (*Valuation, error) {
	snapshot := p.Snapshot()
	v := &Valuation{
		Portfolio: p.Name(),
		At:        e.now(),
		Rows:      make([]Row, len(snapshot)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, h := range snapshot {
		g.Go(func() error {
			price, err := e.oracle.Price(gctx, h.Class, h.Symbol)
			if err != nil {
				err = fmt.Errorf("%s %s: %w", h.Class, h.Symbol, err)
			}
			v.Rows[i] = valuateRow(h, price, err)
			return nil
		})
	}
	g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, r := range v.Rows {
		v.TotalRealized = v.TotalRealized.Add(r.RealizedPnL)
		if !r.Priced {
			continue
		}
		v.TotalValue = v.TotalValue.Add(r.MarketValue)
		v.TotalUnrealized = v.TotalUnrealized.Add(r.Unrealized)
	}
	return v, nil
}

func valuateRow(h Holding, price Money, err error) Row {
	pos := h.Position
	r := Row{
		Class:       h.Class,
		Symbol:      h.Symbol,
		Quantity:    pos.Quantity(),
		AverageCost: pos.AverageCost(),
		RealizedPnL: pos.RealizedPnL(),
	}
	if err != nil {
		r.Err = err
		return r
	}
	r.Priced = true
	r.Price = price
	r.MarketValue = price.Mul(pos.Quantity())
	r.Unrealized = price.Sub(pos.AverageCost()).Mul(pos.Quantity())
	pct, err := r.Unrealized.Ratio(pos.CostBasis())
	if err != nil {
		r.Err = fmt.Errorf("%s %s: unrealized P&L percentage: %w", h.Class, h.Symbol, err)
		return r
	}
	r.UnrealizedPct = pct
	r.HasPct = true
	return r
}
