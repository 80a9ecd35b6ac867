package types

import (
	"encoding/json"
	"math"
	"testing"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name     string
		whole    uint64
		decimals int
		want     Amount
	}{
		{"no decimals", 1200, 0, 1200},
		{"two decimals", 12, 2, 1200},
		{"six decimals", 3, 6, 3_000_000},
		{"zero", 0, 18, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tokens(tt.whole, tt.decimals); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAmountArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   func() Amount
		want Amount
	}{
		{"Add", func() Amount { return Amount(100).Add(200) }, 300},
		{"Sub", func() Amount { return Amount(500).Sub(200) }, 300},
		{"Sub to zero", func() Amount { return Amount(500).Sub(500) }, 0},
		{"Scale half", func() Amount { return Amount(1000).Scale(1, 2) }, 500},
		{"Scale floors", func() Amount { return Amount(1200).Scale(30, 365) }, 98},
		{"Scale identity", func() Amount { return Amount(1200).Scale(365, 365) }, 1200},
		{"Min", func() Amount { return Amount(3).Min(7) }, 3},
		{"Max", func() Amount { return Amount(3).Max(7) }, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAmountScaleExactness(t *testing.T) {
	// a*num exceeds 64 bits but the quotient still fits.
	a := Amount(math.MaxUint64)
	if got := a.Scale(1, 3); got != math.MaxUint64/3 {
		t.Errorf("got %s, want %d", got, uint64(math.MaxUint64/3))
	}
	if got := a.Scale(2, 4); got != math.MaxUint64/2 {
		t.Errorf("got %s, want %d", got, uint64(math.MaxUint64/2))
	}
}

func TestAmountPanics(t *testing.T) {
	tests := []struct {
		name string
		op   func()
	}{
		{"Add overflow", func() { MaxAmount.Add(1) }},
		{"Sub underflow", func() { Amount(1).Sub(2) }},
		{"Scale zero denominator", func() { Amount(1).Scale(1, 0) }},
		{"Scale overflow", func() { MaxAmount.Scale(2, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.op()
		})
	}
}

func TestAmountJSON(t *testing.T) {
	data, err := json.Marshal(Amount(1200))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"1200"` {
		t.Errorf("marshal: got %s, want %q", data, `"1200"`)
	}

	var a Amount
	if err := json.Unmarshal([]byte(`"98"`), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a != 98 {
		t.Errorf("unmarshal: got %s, want 98", a)
	}

	if err := json.Unmarshal([]byte(`"-1"`), &a); err == nil {
		t.Error("expected error for negative amount")
	}
}

func TestSumAmounts(t *testing.T) {
	if got := SumAmounts(1, 2, 3); got != 6 {
		t.Errorf("got %s, want 6", got)
	}
	if got := SumAmounts(); got != 0 {
		t.Errorf("empty sum: got %s, want 0", got)
	}
}
