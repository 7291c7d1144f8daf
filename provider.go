package cryptostock

import "context"

// PriceOracle provides current market prices in USD.
//
// Failures wrap ErrPriceUnavailable or ErrUnknownSymbol, both of which match
// ErrLookup.
type PriceOracle interface {
	Price(ctx context.Context, class AssetClass, symbol string) (Money, error)
}

// SymbolValidator checks that a ticker or crypto symbol exists.
//
// It returns the display name of the instrument, e.g. "Apple Inc." for AAPL
// or "Bitcoin" for BTC. A missing symbol is reported with an error wrapping
// ErrUnknownSymbol.
type SymbolValidator interface {
	ValidateSymbol(ctx context.Context, class AssetClass, symbol string) (name string, err error)
}

// PortfolioStore loads and saves the book of portfolios.
type PortfolioStore interface {
	Load(ctx context.Context) (*Book, error)
	Save(ctx context.Context, b *Book) error
}

// PriceFunc adapts a function to the PriceOracle interface.
type PriceFunc func(ctx context.Context, class AssetClass, symbol string) (Money, error)

func (f PriceFunc) Price(ctx context.Context, class AssetClass, symbol string) (Money, error) {
	return f(ctx, class, symbol)
}
