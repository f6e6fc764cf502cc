package valueobject

import (
	"fmt"

	"github.com/acme/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Money is a value object representing an exact, non-negative monetary amount.
// It is immutable - all operations return new Money instances.
//
// Amounts are kept at cent precision: the constructor and every arithmetic
// operation round half-up to 2 decimals. Rounding at each step, rather than
// only on the final result, is required to reproduce the legacy batch
// arithmetic bit-for-bit.
type Money struct {
	amount decimal.Decimal
}

// roundCents rounds to 2 decimals, half away from zero. Amounts are never
// negative here, so this is exactly round-half-up.
func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// NewMoney creates a new Money from a decimal amount.
// Negative amounts are rejected with shared.ErrNegativeAmount.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, shared.ErrNegativeAmount
	}
	return Money{amount: roundCents(amount)}, nil
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d)
}

// NewMoneyFromFloat creates Money from a float64 value.
// Intended for configuration and test fixtures; computation paths stay decimal.
func NewMoneyFromFloat(amount float64) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount))
}

// MustMoneyFromString creates Money from a string, panics on error
func MustMoneyFromString(amount string) Money {
	m, err := NewMoneyFromString(amount)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns a zero-value Money
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Add returns a new Money with the rounded sum of both amounts.
// Non-negative amounts are closed under addition, so Add cannot fail.
func (m Money) Add(other Money) Money {
	return Money{amount: roundCents(m.amount.Add(other.amount))}
}

// Subtract returns a new Money with the rounded difference.
// Returns shared.ErrNegativeAmount if the result would be negative.
func (m Money) Subtract(other Money) (Money, error) {
	diff := m.amount.Sub(other.amount)
	if diff.IsNegative() {
		return Money{}, shared.ErrNegativeAmount
	}
	return Money{amount: roundCents(diff)}, nil
}

// MustSubtract subtracts two Money values, panics if the result would be
// negative. For call sites where an invariant guarantees the ordering.
func (m Money) MustSubtract(other Money) Money {
	result, err := m.Subtract(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Multiply returns a new Money with the rounded product of the amount and a
// scalar factor. Returns shared.ErrNegativeAmount for negative factors.
func (m Money) Multiply(factor decimal.Decimal) (Money, error) {
	if factor.IsNegative() {
		return Money{}, shared.ErrNegativeAmount
	}
	return Money{amount: roundCents(m.amount.Mul(factor))}, nil
}

// MustMultiply multiplies by a scalar factor, panics on a negative factor
func (m Money) MustMultiply(factor decimal.Decimal) Money {
	result, err := m.Multiply(factor)
	if err != nil {
		panic(err)
	}
	return result
}

// Equals returns true if both amounts are exactly equal
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// LessThan returns true if this Money is less than the other
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// GreaterThanOrEqual returns true if this Money is greater than or equal to the other
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

// Cmp compares two Money values: -1 if m < other, 0 if equal, +1 if m > other
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

// String returns the amount formatted to cents, e.g. "107.25"
func (m Money) String() string {
	return m.amount.StringFixed(2)
}
