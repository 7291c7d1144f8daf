package cryptostock

import (
	"errors"
	"testing"
)

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		m          Money
		want       string
		wantSigned string
	}{
		{M(0), "$0.00", "-"},
		{M(1234.5), "$1,234.50", "+$1,234.50"},
		{M(-5000), "-$5,000.00", "-$5,000.00"},
		{M(0.004), "$0.00", "-"},
		{M(0.005), "$0.01", "+$0.01"},
		{M(1234567.891), "$1,234,567.89", "+$1,234,567.89"},
	}
	for _, tc := range testCases {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("%v.String() = %q, want %q", tc.m.Decimal(), got, tc.want)
		}
		if got := tc.m.SignedString(); got != tc.wantSigned {
			t.Errorf("%v.SignedString() = %q, want %q", tc.m.Decimal(), got, tc.wantSigned)
		}
	}
}

func TestMoney_Ratio(t *testing.T) {
	pct, err := M(140).Ratio(M(1120))
	if err != nil {
		t.Fatalf("Ratio() unexpected error: %v", err)
	}
	if !pct.Equal(12.5) {
		t.Errorf("Ratio() = %v, want 12.5", pct)
	}
	if _, err := M(1).Ratio(M(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("Ratio(0) error = %v, want %v", err, ErrDivisionByZero)
	}
}

func TestParse(t *testing.T) {
	if q, err := ParseQuantity("0.25"); err != nil || !q.Equal(Q(0.25)) {
		t.Errorf("ParseQuantity(0.25) = %v, %v", q, err)
	}
	if _, err := ParseQuantity("ten"); err == nil {
		t.Error("ParseQuantity(ten) succeeded")
	}
	if m, err := ParseMoney("150"); err != nil || !m.Equal(M(150)) {
		t.Errorf("ParseMoney(150) = %v, %v", m, err)
	}
	if _, err := ParseMoney("$150"); err == nil {
		t.Error("ParseMoney($150) succeeded")
	}
}

func TestParseAssetClass(t *testing.T) {
	for _, s := range []string{"stock", "Stocks", "equity"} {
		if c, err := ParseAssetClass(s); err != nil || c != Equity {
			t.Errorf("ParseAssetClass(%q) = %v, %v, want %v", s, c, err, Equity)
		}
	}
	if c, err := ParseAssetClass("CRYPTO"); err != nil || c != Crypto {
		t.Errorf("ParseAssetClass(CRYPTO) = %v, %v, want %v", c, err, Crypto)
	}
	if _, err := ParseAssetClass("bond"); err == nil {
		t.Error("ParseAssetClass(bond) succeeded")
	}
}

func TestLookupErrors(t *testing.T) {
	for _, err := range []error{ErrUnknownSymbol, ErrPriceUnavailable} {
		if !errors.Is(err, ErrLookup) {
			t.Errorf("errors.Is(%v, ErrLookup) = false", err)
		}
	}
	if errors.Is(ErrUnknownSymbol, ErrPriceUnavailable) {
		t.Error("ErrUnknownSymbol matches ErrPriceUnavailable")
	}
}
