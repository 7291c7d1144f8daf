package cryptostock

import (
	"fmt"
	"strings"
)

// AssetClass tells which kind of instrument a symbol designates.
type AssetClass int

const (
	// Equity is a stock, identified by its ticker (e.g. AAPL).
	Equity AssetClass = iota
	// Crypto is a crypto-currency, identified by its symbol (e.g. BTC).
	Crypto
)

// AssetClasses lists every asset class in display order.
var AssetClasses = []AssetClass{Equity, Crypto}

func (c AssetClass) String() string {
	switch c {
	case Equity:
		return "stock"
	case Crypto:
		return "crypto"
	default:
		return "unknown"
	}
}

// Unit is the word used for one unit of the asset class.
func (c AssetClass) Unit() string {
	if c == Crypto {
		return "units"
	}
	return "shares"
}

// ParseAssetClass parses a string into an AssetClass.
func ParseAssetClass(s string) (AssetClass, error) {
	switch strings.ToLower(s) {
	case "stock", "stocks", "equity":
		return Equity, nil
	case "crypto":
		return Crypto, nil
	default:
		return 0, fmt.Errorf("unknown asset class: %q", s)
	}
}

// NormalizeSymbol returns the canonical form of a ticker or crypto symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
