// Package types provides common types used across the vesting ledger.
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"math/bits"
	"strconv"
)

// Amount is a token quantity in the token's smallest unit.
// All arithmetic is unsigned-integer-only — no floating point — and checked:
// overflow and underflow are contract violations and panic.
//
// Examples for an 18-decimal token:
//   - Amount(1200) = 1200 base units
//   - Tokens(12, 2) = 1200 base units of a 2-decimal token
type Amount uint64

// MaxAmount is the largest representable token quantity.
const MaxAmount = Amount(math.MaxUint64)

// Tokens creates an Amount from whole tokens and a decimal count.
// Panics if the result does not fit in 64 bits.
func Tokens(whole uint64, decimals int) Amount {
	unit := uint64(1)
	for i := 0; i < decimals; i++ {
		if unit > math.MaxUint64/10 {
			panic("amount: decimals out of range")
		}
		unit *= 10
	}
	hi, lo := bits.Mul64(whole, unit)
	if hi != 0 {
		panic("amount: overflow")
	}
	return Amount(lo)
}

// Arithmetic operations

// Add adds two Amounts. Panics on overflow.
func (a Amount) Add(other Amount) Amount {
	sum, carry := bits.Add64(uint64(a), uint64(other), 0)
	if carry != 0 {
		panic("amount: overflow")
	}
	return Amount(sum)
}

// Sub subtracts another Amount. Panics on underflow.
func (a Amount) Sub(other Amount) Amount {
	diff, borrow := bits.Sub64(uint64(a), uint64(other), 0)
	if borrow != 0 {
		panic("amount: underflow")
	}
	return Amount(diff)
}

// Scale returns floor(a * num / den) computed with a 128-bit intermediate,
// so a*num may exceed 64 bits without losing exactness. Panics if den is
// zero or the quotient does not fit in 64 bits (requires num <= den or a
// small enough a).
func (a Amount) Scale(num, den uint64) Amount {
	if den == 0 {
		panic("amount: scale by zero denominator")
	}
	hi, lo := bits.Mul64(uint64(a), num)
	if hi >= den {
		panic("amount: scale overflow")
	}
	quo, _ := bits.Div64(hi, lo, den)
	return Amount(quo)
}

// Comparison methods

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool { return a == 0 }

// LessThan returns true if this Amount is less than other.
func (a Amount) LessThan(other Amount) bool { return a < other }

// GreaterThan returns true if this Amount is greater than other.
func (a Amount) GreaterThan(other Amount) bool { return a > other }

// Min returns the smaller of two Amounts.
func (a Amount) Min(other Amount) Amount {
	if a < other {
		return a
	}
	return other
}

// Max returns the larger of two Amounts.
func (a Amount) Max(other Amount) Amount {
	if a > other {
		return a
	}
	return other
}

// Uint64 returns the raw base-unit value.
func (a Amount) Uint64() uint64 { return uint64(a) }

// String returns the base-unit value in decimal.
func (a Amount) String() string { return strconv.FormatUint(uint64(a), 10) }

// MarshalJSON implements json.Marshaler. Amounts are emitted as JSON
// strings: 64-bit values are not reliably representable as JSON numbers.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON implements json.Unmarshaler, accepting both string and
// number forms.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("amount: unmarshal %q: %w", string(data), err)
	}
	*a = Amount(v)
	return nil
}

// SumAmounts calculates the sum of multiple Amounts. Panics on overflow.
func SumAmounts(values ...Amount) Amount {
	var result Amount
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}
