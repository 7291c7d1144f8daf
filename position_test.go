package cryptostock

import (
	"errors"
	"testing"
)

func TestApplyBuy(t *testing.T) {
	existing := NewPosition(Q(5), M(150), M(12))

	testCases := []struct {
		name         string
		pos          *Position
		quantity     Quantity
		price        Money
		wantQuantity Quantity
		wantCost     Money
		wantRealized Money
		wantErr      error
	}{
		{
			name:         "open a new position",
			quantity:     Q(5),
			price:        M(150),
			wantQuantity: Q(5),
			wantCost:     M(150),
		},
		{
			name:         "weighted average on existing position",
			pos:          &existing,
			quantity:     Q(5),
			price:        M(170),
			wantQuantity: Q(10),
			wantCost:     M(160),
			wantRealized: M(12),
		},
		{
			name:         "fractional units",
			pos:          ptr(NewPosition(Q(0.5), M(30000), M(0))),
			quantity:     Q(0.25),
			price:        M(36000),
			wantQuantity: Q(0.75),
			wantCost:     M(32000),
		},
		{name: "zero quantity", quantity: Q(0), price: M(1), wantErr: ErrInvalidQuantity},
		{name: "negative quantity", pos: &existing, quantity: Q(-1), price: M(1), wantErr: ErrInvalidQuantity},
		{name: "zero price", quantity: Q(1), price: M(0), wantErr: ErrInvalidPrice},
		{name: "negative price", pos: &existing, quantity: Q(1), price: M(-3), wantErr: ErrInvalidPrice},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ApplyBuy(tc.pos, tc.quantity, tc.price)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("ApplyBuy() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyBuy() unexpected error: %v", err)
			}
			if !got.Quantity().Equal(tc.wantQuantity) {
				t.Errorf("ApplyBuy() quantity = %v, want %v", got.Quantity(), tc.wantQuantity)
			}
			if !got.AverageCost().Equal(tc.wantCost) {
				t.Errorf("ApplyBuy() average cost = %v, want %v", got.AverageCost(), tc.wantCost)
			}
			if !got.RealizedPnL().Equal(tc.wantRealized) {
				t.Errorf("ApplyBuy() realized = %v, want %v", got.RealizedPnL(), tc.wantRealized)
			}
		})
	}
}

func TestApplyBuy_WeightedAverage(t *testing.T) {
	type buy struct {
		quantity float64
		price    float64
	}
	sequences := [][]buy{
		{{2, 100}, {3, 110}, {5, 125}},
		{{1, 1}, {2, 2}},
		{{1, 1}, {2, 2}, {3, 3}},
		{{0.1, 30000}, {0.35, 27123.45}, {1.2, 41000.01}, {0.005, 65000}},
		{{7, 13.37}, {7, 13.37}, {7, 13.37}},
	}
	for _, seq := range sequences {
		var pos *Position
		var spent Money
		var total Quantity
		for _, b := range seq {
			next, err := ApplyBuy(pos, Q(b.quantity), M(b.price))
			if err != nil {
				t.Fatalf("ApplyBuy(%v) unexpected error: %v", b, err)
			}
			pos = &next
			spent = spent.Add(M(b.price).Mul(Q(b.quantity)))
			total = total.Add(Q(b.quantity))
		}
		want := spent.Div(total)
		if got := pos.AverageCost(); !got.Equal(want) {
			t.Errorf("average cost after %v = %v, want %v", seq, got.Decimal(), want.Decimal())
		}
		if !pos.Quantity().Equal(total) {
			t.Errorf("quantity after %v = %v, want %v", seq, pos.Quantity(), total)
		}
		if !pos.CostBasis().Equal(spent) {
			t.Errorf("cost basis after %v = %v, want %v", seq, pos.CostBasis().Decimal(), spent.Decimal())
		}
	}
}

func TestApplySell_KeepsCostBasis(t *testing.T) {
	pos := ptr(NewPosition(Q(3), M(10), M(0)))
	pos, _, err := ApplySell(pos, Q(1), M(12))
	if err != nil {
		t.Fatalf("ApplySell() unexpected error: %v", err)
	}
	if !pos.CostBasis().Equal(M(20)) {
		t.Errorf("cost basis after a sell = %v, want 20", pos.CostBasis())
	}
	next, err := ApplyBuy(pos, Q(2), M(15))
	if err != nil {
		t.Fatalf("ApplyBuy() unexpected error: %v", err)
	}
	// (20 + 2*15) / 4
	if !next.AverageCost().Equal(M(12.5)) {
		t.Errorf("average cost = %v, want 12.5", next.AverageCost())
	}
}

func TestApplySell(t *testing.T) {
	held := NewPosition(Q(10), M(160), M(0))

	testCases := []struct {
		name         string
		pos          *Position
		quantity     Quantity
		price        Money
		wantDelta    Money
		wantClosed   bool
		wantQuantity Quantity
		wantRealized Money
		wantErr      error
	}{
		{
			name:         "partial sell at a gain",
			pos:          &held,
			quantity:     Q(3),
			price:        M(200),
			wantDelta:    M(120),
			wantQuantity: Q(7),
			wantRealized: M(120),
		},
		{
			name:         "partial sell at a loss",
			pos:          &held,
			quantity:     Q(4),
			price:        M(150),
			wantDelta:    M(-40),
			wantQuantity: Q(6),
			wantRealized: M(-40),
		},
		{
			name:       "sell everything",
			pos:        &held,
			quantity:   Q(10),
			price:      M(170),
			wantDelta:  M(100),
			wantClosed: true,
		},
		{
			name:         "sell at price zero",
			pos:          &held,
			quantity:     Q(1),
			price:        M(0),
			wantDelta:    M(-160),
			wantQuantity: Q(9),
			wantRealized: M(-160),
		},
		{name: "no position", quantity: Q(1), price: M(1), wantErr: ErrNoPosition},
		{name: "more than held", pos: &held, quantity: Q(10.5), price: M(1), wantErr: ErrInsufficientQuantity},
		{name: "zero quantity", pos: &held, quantity: Q(0), price: M(1), wantErr: ErrInvalidQuantity},
		{name: "negative quantity", pos: &held, quantity: Q(-2), price: M(1), wantErr: ErrInvalidQuantity},
		{name: "negative price", pos: &held, quantity: Q(1), price: M(-1), wantErr: ErrInvalidPrice},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, delta, err := ApplySell(tc.pos, tc.quantity, tc.price)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("ApplySell() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplySell() unexpected error: %v", err)
			}
			if !delta.Equal(tc.wantDelta) {
				t.Errorf("ApplySell() delta = %v, want %v", delta, tc.wantDelta)
			}
			if tc.wantClosed {
				if got != nil {
					t.Fatalf("ApplySell() = %v, want a closed position", got)
				}
				return
			}
			if got == nil {
				t.Fatal("ApplySell() closed the position unexpectedly")
			}
			if !got.Quantity().Equal(tc.wantQuantity) {
				t.Errorf("ApplySell() quantity = %v, want %v", got.Quantity(), tc.wantQuantity)
			}
			if !got.AverageCost().Equal(tc.pos.AverageCost()) {
				t.Errorf("ApplySell() changed the average cost to %v", got.AverageCost())
			}
			if !got.RealizedPnL().Equal(tc.wantRealized) {
				t.Errorf("ApplySell() realized = %v, want %v", got.RealizedPnL(), tc.wantRealized)
			}
		})
	}

	// the input position is a value, it must not be changed by any of the above.
	if !held.Quantity().Equal(Q(10)) || !held.RealizedPnL().IsZero() {
		t.Errorf("ApplySell() mutated its input: %v", held)
	}
}
