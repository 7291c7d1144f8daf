package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/etnz/cryptostock"
)

// DefaultCoinMarketCapURL is the base address of the CoinMarketCap API.
const DefaultCoinMarketCapURL = "https://pro-api.coinmarketcap.com"

const cmcKeyHeader = "X-CMC_PRO_API_KEY"

// ErrMissingAPIKey is returned by crypto lookups when no CoinMarketCap API key
// is configured.
var ErrMissingAPIKey = errors.New("CoinMarketCap API key not found, set CMC_API_KEY in your environment or .env file")

// coinMarketCap fetches crypto quotes in USD from the CoinMarketCap API.
//
//	{
//	    "status": {"error_code": 0, ...},
//	    "data": {
//	        "BTC": {
//	            "name": "Bitcoin",
//	            "symbol": "BTC",
//	            "quote": {"USD": {"price": 30123.45, ...}}
//	        }
//	    }
//	}
//
// An invalid symbol is answered with a 400 or is missing from data.
type coinMarketCap struct {
	client *http.Client
	base   string
	apiKey string
}

func (c *coinMarketCap) quote(ctx context.Context, symbol string) (quote, error) {
	if c.apiKey == "" {
		return quote{}, ErrMissingAPIKey
	}
	params := url.Values{"symbol": {symbol}, "convert": {"USD"}}
	addr := c.base + "/v1/cryptocurrency/quotes/latest?" + params.Encode()
	header := http.Header{cmcKeyHeader: {c.apiKey}, "Accept": {"application/json"}}

	jobj, err := jwget(ctx, c.client, addr, header)
	if err != nil {
		if httpStatus(err) == http.StatusBadRequest {
			return quote{}, fmt.Errorf("cryptocurrency symbol %q: %w", symbol, cryptostock.ErrUnknownSymbol)
		}
		return quote{}, fmt.Errorf("cryptocurrency symbol %q: %w: %v", symbol, cryptostock.ErrPriceUnavailable, err)
	}
	if _, err := get(fmt.Sprintf("$.data[%q]", symbol), jobj); err != nil {
		return quote{}, fmt.Errorf("cryptocurrency symbol %q: %w", symbol, cryptostock.ErrUnknownSymbol)
	}

	var q quote
	q.Name, _ = getString(fmt.Sprintf("$.data[%q].name", symbol), jobj)
	q.Price, err = getDecimal(fmt.Sprintf("$.data[%q].quote.USD.price", symbol), jobj)
	if err != nil {
		return q, fmt.Errorf("cryptocurrency symbol %q: %w: %v", symbol, cryptostock.ErrPriceUnavailable, err)
	}
	return q, nil
}
