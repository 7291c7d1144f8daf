package market

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/etnz/cryptostock"
	"github.com/shopspring/decimal"
)

// DefaultYahooURL is the base address of the Yahoo Finance API.
const DefaultYahooURL = "https://query1.finance.yahoo.com"

// yahoo fetches equity quotes from Yahoo Finance's chart endpoint.
//
//	{
//	    "chart": {
//	        "result": [
//	            {
//	                "meta": {
//	                    "currency": "USD",
//	                    "symbol": "AAPL",
//	                    "regularMarketPrice": 189.84,
//	                    "longName": "Apple Inc.",
//	                    "shortName": "Apple Inc."
//	                },
//	                ...
//	            }
//	        ],
//	        "error": null
//	    }
//	}
//
// An unknown ticker is answered with a 404 and a null result.
type yahoo struct {
	client *http.Client
	base   string
}

// quote is what a chart request tells about a ticker.
type quote struct {
	Name  string
	Price decimal.Decimal
}

func (y *yahoo) quote(ctx context.Context, ticker string) (quote, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d", y.base, url.PathEscape(ticker))
	header := http.Header{"User-Agent": {"Mozilla/5.0 (compatible; cst)"}}

	jobj, err := jwget(ctx, y.client, addr, header)
	if err != nil {
		if httpStatus(err) == http.StatusNotFound {
			return quote{}, fmt.Errorf("ticker symbol %q: %w", ticker, cryptostock.ErrUnknownSymbol)
		}
		return quote{}, fmt.Errorf("ticker symbol %q: %w: %v", ticker, cryptostock.ErrPriceUnavailable, err)
	}
	if _, err := get("$.chart.result[0].meta", jobj); err != nil {
		return quote{}, fmt.Errorf("ticker symbol %q: %w", ticker, cryptostock.ErrUnknownSymbol)
	}

	var q quote
	q.Name, err = getString("$.chart.result[0].meta.shortName", jobj)
	if err != nil {
		q.Name, _ = getString("$.chart.result[0].meta.longName", jobj)
	}
	q.Price, err = getDecimal("$.chart.result[0].meta.regularMarketPrice", jobj)
	if err != nil {
		return q, fmt.Errorf("ticker symbol %q: %w: %v", ticker, cryptostock.ErrPriceUnavailable, err)
	}
	return q, nil
}
