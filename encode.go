package cryptostock

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// This file contains code to persist a book of portfolios as a single JSON
// document, in the portfolios.json format of the first versions of the
// tracker:
//
//	{
//	    "<portfolio>": {
//	        "stocks": { "AAPL": {"shares": 5, "buy_price": 150, "realized_pnl": 12.5} },
//	        "crypto": { "BTC": {"amount": 1, "buy_price": 30000} }
//	    }
//	}
//
// Portfolios and symbols are written in book order and read back in document
// order, so that a round trip keeps the order reports are displayed in.

// jposition is a position record as it is read from the file.
type jposition struct {
	Shares      *Quantity `json:"shares"`
	Amount      *Quantity `json:"amount"`
	BuyPrice    *Money    `json:"buy_price"`
	RealizedPnL *Money    `json:"realized_pnl"`
	// older files use the British spelling
	RealisedPnL *Money `json:"realised_pnl"`
}

// quantityKey is the name of the quantity attribute for each asset class.
func quantityKey(class AssetClass) string {
	if class == Crypto {
		return "amount"
	}
	return "shares"
}

// classKey is the name of the mapping holding each asset class.
func classKey(class AssetClass) string {
	if class == Crypto {
		return "crypto"
	}
	return "stocks"
}

// EncodeBook writes the book as an indented JSON document.
func EncodeBook(w io.Writer, b *Book) error {
	var root jsonObjectWriter
	for p := range b.Portfolios() {
		raw, err := encodePortfolio(p)
		if err != nil {
			return fmt.Errorf("cannot encode portfolio %q: %w", p.Name(), err)
		}
		root.Append(p.Name(), json.RawMessage(raw))
	}
	compact, err := root.MarshalJSON()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "    "); err != nil {
		return err
	}
	out.WriteString("\n")
	_, err = out.WriteTo(w)
	return err
}

func encodePortfolio(p *Portfolio) ([]byte, error) {
	classes := make(map[AssetClass]*jsonObjectWriter, len(AssetClasses))
	for _, class := range AssetClasses {
		classes[class] = new(jsonObjectWriter)
	}
	for _, h := range p.Snapshot() {
		var rec jsonObjectWriter
		rec.Append(quantityKey(h.Class), h.Position.Quantity())
		rec.Append("buy_price", h.Position.AverageCost())
		rec.Optional("realized_pnl", h.Position.RealizedPnL())
		raw, err := rec.MarshalJSON()
		if err != nil {
			return nil, err
		}
		classes[h.Class].Append(h.Symbol, json.RawMessage(raw))
	}

	var w jsonObjectWriter
	for _, class := range AssetClasses {
		raw, err := classes[class].MarshalJSON()
		if err != nil {
			return nil, err
		}
		w.Append(classKey(class), json.RawMessage(raw))
	}
	return w.MarshalJSON()
}

// DecodeBook reads a book from a JSON document written by EncodeBook or by
// older versions of the tracker.
//
// Records without a realized P&L start at 0. Records with a zero quantity are
// dropped.
func DecodeBook(r io.Reader) (*Book, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	b := NewBook()
	err := decodeObject(dec, func(name string) error {
		p, err := NewPortfolio(name)
		if err != nil {
			return fmt.Errorf("format error: portfolio %q: %w", name, err)
		}
		if err := decodePortfolio(dec, p); err != nil {
			return fmt.Errorf("format error in portfolio %q: %w", name, err)
		}
		return b.Insert(p)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func decodePortfolio(dec *json.Decoder, p *Portfolio) error {
	return decodeObject(dec, func(key string) error {
		var class AssetClass
		switch key {
		case "stocks":
			class = Equity
		case "crypto":
			class = Crypto
		default:
			// unknown attributes are skipped
			var skip json.RawMessage
			return dec.Decode(&skip)
		}
		return decodeObject(dec, func(symbol string) error {
			var rec jposition
			if err := dec.Decode(&rec); err != nil {
				return fmt.Errorf("%s %q: %w", class, symbol, err)
			}
			return p.restore(class, symbol, rec)
		})
	})
}

// restore adds a position read from a file to the portfolio, bypassing the
// buy rules but keeping the portfolio's invariants.
func (p *Portfolio) restore(class AssetClass, symbol string, rec jposition) error {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return fmt.Errorf("empty symbol in %s", classKey(class))
	}
	quantity := rec.Shares
	if class == Crypto || quantity == nil {
		if rec.Amount != nil {
			quantity = rec.Amount
		}
	}
	if quantity == nil {
		return fmt.Errorf("%s %q: missing %q", class, symbol, quantityKey(class))
	}
	if quantity.IsNegative() {
		return fmt.Errorf("%s %q: %w", class, symbol, ErrInvalidQuantity)
	}
	if quantity.IsZero() {
		return nil
	}
	var cost Money
	if rec.BuyPrice != nil {
		cost = *rec.BuyPrice
	}
	if cost.IsNegative() {
		return fmt.Errorf("%s %q: %w", class, symbol, ErrInvalidPrice)
	}
	var realized Money
	switch {
	case rec.RealizedPnL != nil:
		realized = *rec.RealizedPnL
	case rec.RealisedPnL != nil:
		realized = *rec.RealisedPnL
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, other := range AssetClasses {
		if _, exists := p.byClass(other).get(symbol); exists {
			if other != class {
				return fmt.Errorf("%s %q: %w", class, symbol, ErrAssetClassConflict)
			}
			return fmt.Errorf("%s %q is defined twice", class, symbol)
		}
	}
	p.byClass(class).set(symbol, NewPosition(*quantity, cost, realized))
	return nil
}
