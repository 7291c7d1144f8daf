package cryptostock

import "fmt"

// Position is the aggregate state of one instrument held in a portfolio.
//
// A Position is a value: operations return a new Position and leave the
// receiver untouched.
type Position struct {
	quantity    Quantity
	averageCost Money
	// cost is the exact amount paid for quantity. Buys add to it and derive
	// averageCost from it, so that rounding does not build up across buys.
	cost        Money
	realizedPnL Money
}

// NewPosition returns a position with the given state. It is meant for
// decoders; buy and sell go through ApplyBuy and ApplySell.
func NewPosition(quantity Quantity, averageCost, realizedPnL Money) Position {
	return Position{
		quantity:    quantity,
		averageCost: averageCost,
		cost:        averageCost.Mul(quantity),
		realizedPnL: realizedPnL,
	}
}

// Quantity returns the number of shares or units held.
func (p Position) Quantity() Quantity { return p.quantity }

// AverageCost returns the weighted-average price paid per unit.
func (p Position) AverageCost() Money { return p.averageCost }

// RealizedPnL returns the profit or loss accumulated by sells.
func (p Position) RealizedPnL() Money { return p.realizedPnL }

// CostBasis returns the total amount paid for the quantity held.
func (p Position) CostBasis() Money { return p.cost }

func (p Position) String() string {
	return fmt.Sprintf("%s @ %s (realized %s)", p.quantity, p.averageCost, p.realizedPnL)
}

// ApplyBuy returns the position after buying quantity at price.
//
// A nil position opens a new one at price. Otherwise the average cost becomes
// the total cost basis divided by the total quantity. Realized P&L is
// untouched.
func ApplyBuy(pos *Position, quantity Quantity, price Money) (Position, error) {
	if !quantity.IsPositive() {
		return Position{}, fmt.Errorf("cannot buy %s: %w", quantity, ErrInvalidQuantity)
	}
	if !price.IsPositive() {
		return Position{}, fmt.Errorf("cannot buy at %s: %w: must be greater than 0", price, ErrInvalidPrice)
	}
	if pos == nil {
		return Position{quantity: quantity, averageCost: price, cost: price.Mul(quantity)}, nil
	}

	total := pos.quantity.Add(quantity)
	cost := pos.cost.Add(price.Mul(quantity))
	return Position{
		quantity:    total,
		averageCost: cost.Div(total),
		cost:        cost,
		realizedPnL: pos.realizedPnL,
	}, nil
}

// ApplySell returns the position after selling quantity at price, and the
// profit or loss realized by this sell.
//
// The returned position is nil when the whole quantity is sold. Average cost
// is never changed by a sell.
func ApplySell(pos *Position, quantity Quantity, price Money) (*Position, Money, error) {
	if !quantity.IsPositive() {
		return pos, Money{}, fmt.Errorf("cannot sell %s: %w", quantity, ErrInvalidQuantity)
	}
	if price.IsNegative() {
		return pos, Money{}, fmt.Errorf("cannot sell at %s: %w: must not be negative", price, ErrInvalidPrice)
	}
	if pos == nil {
		return nil, Money{}, ErrNoPosition
	}
	if quantity.GreaterThan(pos.quantity) {
		return pos, Money{}, fmt.Errorf("only %s held, cannot sell %s: %w", pos.quantity, quantity, ErrInsufficientQuantity)
	}

	delta := price.Sub(pos.averageCost).Mul(quantity)
	remaining := pos.quantity.Sub(quantity)
	if remaining.IsZero() {
		return nil, delta, nil
	}
	return &Position{
		quantity:    remaining,
		averageCost: pos.averageCost,
		cost:        pos.cost.Sub(pos.averageCost.Mul(quantity)),
		realizedPnL: pos.realizedPnL.Add(delta),
	}, delta, nil
}
