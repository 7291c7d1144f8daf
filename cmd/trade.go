package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/etnz/cryptostock"
)

// wording is how the messages name things for an asset class.
type wording struct {
	label  string // of a symbol, at the beginning of a sentence
	symbol string // kind of symbol
	asset  string
	unit   string // singular unit
}

func wordsFor(class cryptostock.AssetClass) wording {
	if class == cryptostock.Crypto {
		return wording{label: "Symbol", symbol: "cryptocurrency symbol", asset: "cryptocurrency", unit: "unit"}
	}
	return wording{label: "Ticker", symbol: "ticker symbol", asset: "stock", unit: "share"}
}

// parseBuy parses and validates the quantity and price of a buy.
func parseBuy(class cryptostock.AssetClass, qs, ps string) (cryptostock.Quantity, cryptostock.Money, error) {
	q, err := cryptostock.ParseQuantity(qs)
	if err != nil {
		return q, cryptostock.Money{}, err
	}
	if !q.IsPositive() {
		return q, cryptostock.Money{}, fmt.Errorf("number of %s must be greater than 0", class.Unit())
	}
	p, err := cryptostock.ParseMoney(ps)
	if err != nil {
		return q, p, err
	}
	if !p.IsPositive() {
		return q, p, errors.New("buy price must be greater than 0")
	}
	return q, p, nil
}

// parseSell parses and validates the quantity and price of a sell.
func parseSell(class cryptostock.AssetClass, qs, ps string) (cryptostock.Quantity, cryptostock.Money, error) {
	q, err := cryptostock.ParseQuantity(qs)
	if err != nil {
		return q, cryptostock.Money{}, err
	}
	if !q.IsPositive() {
		return q, cryptostock.Money{}, fmt.Errorf("number of %s to sell must be greater than 0", class.Unit())
	}
	p, err := cryptostock.ParseMoney(ps)
	if err != nil {
		return q, p, err
	}
	if p.IsNegative() {
		return q, p, errors.New("sell price cannot be negative")
	}
	return q, p, nil
}

// buy validates symbol, asks for a confirmation unless yes is set, and adds
// the order to p. It returns the message for the user.
//
// A declined confirmation returns cryptostock.ErrCancelled.
func (a *App) buy(ctx context.Context, p *cryptostock.Portfolio, class cryptostock.AssetClass, symbol string, q cryptostock.Quantity, price cryptostock.Money, yes bool) (string, error) {
	symbol = cryptostock.NormalizeSymbol(symbol)
	w := wordsFor(class)

	name, err := a.Validator.ValidateSymbol(ctx, class, symbol)
	if errors.Is(err, cryptostock.ErrUnknownSymbol) {
		return "", fmt.Errorf("%s '%s' does not exist: %w", w.symbol, symbol, err)
	}
	if err != nil {
		return "", err
	}

	confirmed := yes
	if !yes {
		question := fmt.Sprintf("%s '%s' corresponds to '%s'. Are you sure you want to add this %s?", w.label, symbol, name, w.asset)
		if confirmed, err = a.confirm(question); err != nil {
			return "", err
		}
	}
	order := cryptostock.Order{Class: class, Symbol: symbol, Quantity: q, Price: price, Confirmed: confirmed}
	if _, err := p.Add(order); err != nil {
		return "", err
	}

	if class == cryptostock.Crypto {
		return fmt.Sprintf("Added %s %s of %s (%s) to portfolio '%s' at %s per %s.", q, class.Unit(), symbol, name, p.Name(), price, w.unit), nil
	}
	return fmt.Sprintf("Added %s %s of %s to portfolio '%s' at %s per %s.", q, class.Unit(), symbol, p.Name(), price, w.unit), nil
}

// sellMessage tells the user what a sell did.
func sellMessage(r cryptostock.SellResult) string {
	unit := r.Class.Unit()
	if r.Closed {
		return fmt.Sprintf("Sold all %s of %s. Realized PnL: %s. You no longer own any %s of %s.", unit, r.Symbol, r.Realized, unit, r.Symbol)
	}
	return fmt.Sprintf("Sold %s %s of %s. Realized PnL: %s. You now own %s %s.", r.Quantity, unit, r.Symbol, r.Realized, r.Position.Quantity().Format(), unit)
}
