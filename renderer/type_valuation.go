package renderer

import (
	"time"

	"github.com/etnz/cryptostock"
)

// Valuation is a struct to represent the valuation of a portfolio in json.
// Numbers are handled using the exact decimal types (Money, Quantity, etc.)
// So that they already contain basics renderers (SignedString etc.)
type Valuation struct {
	// Name of the portfolio.
	Name string `json:"name"`
	// At is when the prices were fetched.
	At        time.Time           `json:"at"`
	Positions []ValuationPosition `json:"positions"`
	// Failures lists the positions whose valuation is incomplete.
	Failures []ValuationFailure `json:"failures,omitempty"`

	TotalValue      cryptostock.Money `json:"totalValue"`
	TotalUnrealized cryptostock.Money `json:"totalUnrealized"`
	TotalRealized   cryptostock.Money `json:"totalRealized"`
}

// ValuationPosition represents a single row of the valuation table.
type ValuationPosition struct {
	Symbol      string               `json:"symbol"`
	Class       string               `json:"class"`
	Unit        string               `json:"unit"`
	Quantity    cryptostock.Quantity `json:"quantity"`
	AverageCost cryptostock.Money    `json:"averageCost"`
	RealizedPnL cryptostock.Money    `json:"realizedPnL"`

	// Priced is false if the price is unknown, then Price, MarketValue and
	// Unrealized are meaningless.
	Priced        bool                `json:"priced"`
	Price         cryptostock.Money   `json:"price"`
	MarketValue   cryptostock.Money   `json:"marketValue"`
	Unrealized    cryptostock.Money   `json:"unrealized"`
	UnrealizedPct cryptostock.Percent `json:"unrealizedPct"`
	HasPct        bool                `json:"hasPct"`
}

// ValuationFailure explains why a position could not be fully valued.
type ValuationFailure struct {
	Symbol string `json:"symbol"`
	Class  string `json:"class"`
	Error  string `json:"error"`
}

// NewValuation creates a new Valuation struct from a portfolio valuation.
func NewValuation(v *cryptostock.Valuation) *Valuation {
	res := &Valuation{
		Name:            v.Portfolio,
		At:              v.At,
		Positions:       make([]ValuationPosition, 0, len(v.Rows)),
		TotalValue:      v.TotalValue,
		TotalUnrealized: v.TotalUnrealized,
		TotalRealized:   v.TotalRealized,
	}
	for _, r := range v.Rows {
		res.Positions = append(res.Positions, ValuationPosition{
			Symbol:        r.Symbol,
			Class:         r.Class.String(),
			Unit:          r.Class.Unit(),
			Quantity:      r.Quantity,
			AverageCost:   r.AverageCost,
			RealizedPnL:   r.RealizedPnL,
			Priced:        r.Priced,
			Price:         r.Price,
			MarketValue:   r.MarketValue,
			Unrealized:    r.Unrealized,
			UnrealizedPct: r.UnrealizedPct,
			HasPct:        r.HasPct,
		})
	}
	for _, r := range v.Failures() {
		res.Failures = append(res.Failures, ValuationFailure{
			Symbol: r.Symbol,
			Class:  r.Class.String(),
			Error:  r.Err.Error(),
		})
	}
	return res
}
