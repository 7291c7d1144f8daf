package cryptostock

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the only currency prices and values are expressed in.
const Currency = money.USD

// Money represents a monetary value in USD.
type Money struct {
	value decimal.Decimal // as major unit value
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// ParseMoney parses an amount of USD from its decimal representation.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{value: d}, nil
}

// currency returns the money's currency
func (m Money) currency() *money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return money.New(0, Currency).Currency()
}

// String returns the string representation of the money value, e.g. "$1,234.56".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.Round(2).IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) IsPositive() bool         { return m.value.IsPositive() }
func (m Money) IsNegative() bool         { return m.value.IsNegative() }
func (m Money) Add(n Money) Money        { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money        { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(q Quantity) Money     { return Money{value: m.value.Mul(q.value)} }
func (m Money) Div(q Quantity) Money     { return Money{value: m.value.Div(q.value)} }
func (m Money) Decimal() decimal.Decimal { return m.value }

// Ratio returns m/n as a percentage. It fails with ErrDivisionByZero if n is zero.
func (m Money) Ratio(n Money) (Percent, error) {
	if n.value.IsZero() {
		return 0, ErrDivisionByZero
	}
	pct, _ := m.value.Div(n.value).Mul(decimal.NewFromInt(100)).Float64()
	return Percent(pct), nil
}

// MarshalJSON writes the full precision amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.value.String()), nil
}

func (m *Money) UnmarshalJSON(decimalBytes []byte) error {
	return m.value.UnmarshalJSON(decimalBytes)
}
