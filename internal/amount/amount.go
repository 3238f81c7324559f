// Package amount implements the fixed-denominator fraction model used for
// all stored money and quantity values. A value is an exact integer
// numerator over a per-commodity denominator (100 for cent-denominated
// currencies). Intermediate arithmetic runs on decimal.Decimal; rounding to
// an integer numerator happens exactly once, at the persistence boundary.
package amount

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultDenom is the fraction denominator for two-decimal currencies.
const DefaultDenom int64 = 100

// Fraction is an exact numerator/denominator pair.
type Fraction struct {
	Num   int64
	Denom int64
}

// New returns num/denom as a Fraction.
func New(num, denom int64) Fraction {
	return Fraction{Num: num, Denom: denom}
}

// Zero returns the zero value over denom.
func Zero(denom int64) Fraction {
	return Fraction{Denom: denom}
}

// FromDecimal rounds d to an integer numerator over denom, half away from
// zero. This is the only place a value loses precision before storage.
func FromDecimal(d decimal.Decimal, denom int64) Fraction {
	num := d.Mul(decimal.NewFromInt(denom)).Round(0).IntPart()
	return Fraction{Num: num, Denom: denom}
}

// Mul multiplies a quantity by a unit price. The result is exact and must
// be passed through FromDecimal before storage.
func Mul(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// Neg returns the fraction with its sign flipped.
func (f Fraction) Neg() Fraction {
	return Fraction{Num: -f.Num, Denom: f.Denom}
}

// Add sums two fractions over the same denominator.
func (f Fraction) Add(other Fraction) (Fraction, error) {
	if f.Denom != other.Denom {
		return Fraction{}, fmt.Errorf("amount: denominator mismatch: %d vs %d", f.Denom, other.Denom)
	}
	return Fraction{Num: f.Num + other.Num, Denom: f.Denom}, nil
}

// IsZero reports whether the numerator is zero.
func (f Fraction) IsZero() bool {
	return f.Num == 0
}

// Decimal returns the exact decimal value of the fraction.
func (f Fraction) Decimal() decimal.Decimal {
	if f.Denom == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(f.Num).Div(decimal.NewFromInt(f.Denom))
}

func (f Fraction) String() string {
	return f.Decimal().String()
}
