package cryptostock

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"
)

// Portfolio is a named set of equity and crypto positions.
//
// Positions are only changed through Buy, Add and Sell, which enforce the
// accounting rules. A symbol is held in at most one asset class. The name is
// changed through Book.Rename.
type Portfolio struct {
	mu     sync.Mutex
	name   string
	stocks holdings
	crypto holdings
}

// NewPortfolio creates an empty portfolio.
func NewPortfolio(name string) (*Portfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Portfolio{name: name}, nil
}

// Name returns the name of the portfolio.
func (p *Portfolio) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

// rename changes the name of the portfolio. The name is unchanged on error.
//
// A portfolio held by a Book is renamed through Book.Rename, which keeps the
// names unique and the index in sync.
func (p *Portfolio) rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.name = name
	return nil
}

func (p *Portfolio) byClass(class AssetClass) *holdings {
	if class == Crypto {
		return &p.crypto
	}
	return &p.stocks
}

// Position returns a copy of the position held for symbol in the asset class.
func (p *Portfolio) Position(class AssetClass, symbol string) (Position, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.byClass(class).get(NormalizeSymbol(symbol))
}

// Positions iterates over the positions of an asset class in the order the
// symbols were first bought.
//
// The iteration runs over a snapshot, the portfolio can be changed during it.
func (p *Portfolio) Positions(class AssetClass) iter.Seq2[string, Position] {
	snapshot := p.Snapshot()
	return func(yield func(string, Position) bool) {
		for _, h := range snapshot {
			if h.Class != class {
				continue
			}
			if !yield(h.Symbol, h.Position) {
				return
			}
		}
	}
}

// Len returns the number of positions held in all asset classes.
func (p *Portfolio) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stocks.len() + p.crypto.len()
}

// Holding is a position with the symbol and asset class it is held under.
type Holding struct {
	Class    AssetClass
	Symbol   string
	Position Position
}

// Snapshot returns a consistent copy of every position, equities first, each
// class in the order the symbols were first bought.
func (p *Portfolio) Snapshot() []Holding {
	p.mu.Lock()
	defer p.mu.Unlock()
	res := make([]Holding, 0, p.stocks.len()+p.crypto.len())
	for _, class := range AssetClasses {
		h := p.byClass(class)
		for _, symbol := range h.symbols {
			res = append(res, Holding{Class: class, Symbol: symbol, Position: h.positions[symbol]})
		}
	}
	return res
}

// Buy adds quantity of symbol bought at price to the portfolio and returns
// the updated position.
func (p *Portfolio) Buy(class AssetClass, symbol string, quantity Quantity, price Money) (Position, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return Position{}, fmt.Errorf("empty symbol: %w", ErrUnknownSymbol)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	other := Crypto
	if class == Crypto {
		other = Equity
	}
	if _, exists := p.byClass(other).get(symbol); exists {
		return Position{}, fmt.Errorf("%s is held as %s: %w", symbol, other, ErrAssetClassConflict)
	}

	h := p.byClass(class)
	var current *Position
	if pos, exists := h.get(symbol); exists {
		current = &pos
	}
	pos, err := ApplyBuy(current, quantity, price)
	if err != nil {
		return Position{}, err
	}
	h.set(symbol, pos)
	return pos, nil
}

// Order is a buy that has gone through validation and confirmation.
type Order struct {
	Class     AssetClass
	Symbol    string
	Quantity  Quantity
	Price     Money
	Confirmed bool
}

// Add executes a confirmed order. An unconfirmed order fails with
// ErrCancelled and leaves the portfolio unchanged.
func (p *Portfolio) Add(o Order) (Position, error) {
	if !o.Confirmed {
		return Position{}, ErrCancelled
	}
	return p.Buy(o.Class, o.Symbol, o.Quantity, o.Price)
}

// SellResult reports the outcome of a sell.
type SellResult struct {
	Class    AssetClass
	Symbol   string
	Quantity Quantity // sold
	Price    Money
	// Realized is the profit or loss realized by this sell.
	Realized Money
	// Position is the remaining position. When Closed, it has a zero quantity
	// and carries the final realized P&L of the position, which the portfolio
	// does not retain.
	Position Position
	Closed   bool
}

// Sell removes quantity of symbol sold at price from the portfolio.
//
// Selling the whole quantity removes the position from the portfolio.
func (p *Portfolio) Sell(class AssetClass, symbol string, quantity Quantity, price Money) (SellResult, error) {
	symbol = NormalizeSymbol(symbol)
	p.mu.Lock()
	defer p.mu.Unlock()

	h := p.byClass(class)
	var current *Position
	if pos, exists := h.get(symbol); exists {
		current = &pos
	}
	next, delta, err := ApplySell(current, quantity, price)
	if err != nil {
		if errors.Is(err, ErrNoPosition) {
			return SellResult{}, fmt.Errorf("you do not own any %s of %q: %w", class.Unit(), symbol, ErrNoPosition)
		}
		return SellResult{}, err
	}

	res := SellResult{Class: class, Symbol: symbol, Quantity: quantity, Price: price, Realized: delta}
	if next == nil {
		h.remove(symbol)
		res.Closed = true
		res.Position = Position{averageCost: current.averageCost, realizedPnL: current.realizedPnL.Add(delta)}
		return res, nil
	}
	h.set(symbol, *next)
	res.Position = *next
	return res, nil
}

// holdings is a mapping from symbol to position that remembers insertion order.
// Its zero value is ready to use.
type holdings struct {
	symbols   []string
	positions map[string]Position
}

func (h *holdings) len() int { return len(h.symbols) }

func (h *holdings) get(symbol string) (Position, bool) {
	pos, ok := h.positions[symbol]
	return pos, ok
}

func (h *holdings) set(symbol string, pos Position) {
	if h.positions == nil {
		h.positions = make(map[string]Position)
	}
	if _, exists := h.positions[symbol]; !exists {
		h.symbols = append(h.symbols, symbol)
	}
	h.positions[symbol] = pos
}

func (h *holdings) remove(symbol string) {
	if _, exists := h.positions[symbol]; !exists {
		return
	}
	delete(h.positions, symbol)
	h.symbols = slices.DeleteFunc(h.symbols, func(s string) bool { return s == symbol })
}
