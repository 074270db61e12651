package domain

import (
	"github.com/shopspring/decimal"
)

// moneyScale is the number of decimal places every committed amount carries.
const moneyScale = 2

// Money is a fixed-point monetary amount. It wraps a decimal backed by an
// integer coefficient, so no ledger or depreciation math ever touches binary
// floating point. All operations that can produce sub-cent results pass
// through roundPolicy, the single rounding function for the whole module.
type Money struct {
	d decimal.Decimal
}

// roundPolicy rounds to moneyScale decimal places, half-up (a midpoint
// rounds away from zero). Every Money constructor and arithmetic helper
// funnels through here.
func roundPolicy(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyScale)
}

// NewMoneyFromString parses a decimal string into Money.
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}

	return Money{d: roundPolicy(d)}, nil
}

// NewMoneyFromInt creates Money from a whole-unit integer amount.
func NewMoneyFromInt(i int64) Money {
	return Money{d: decimal.NewFromInt(i)}
}

// NewMoneyFromDecimal creates Money from a decimal, applying the rounding policy.
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d: roundPolicy(d)}
}

// MustMoney parses a decimal string and panics on failure. Test helper.
func MustMoney(s string) Money {
	m, err := NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}

	return m
}

// ZeroMoney returns the zero amount.
func ZeroMoney() Money {
	return Money{d: decimal.Zero}
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{d: m.d.Add(other.d)}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{d: m.d.Sub(other.d)}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{d: m.d.Neg()}
}

// MulRatio multiplies by num/den and rounds per policy. Used for
// depreciation rates, which are exact rationals (2/life, 1/periods).
func (m Money) MulRatio(num, den int64) Money {
	if den == 0 {
		panic("money: zero denominator")
	}

	product := m.d.Mul(decimal.NewFromInt(num)).Div(decimal.NewFromInt(den))

	return Money{d: roundPolicy(product)}
}

// Cmp compares m and other: -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) int {
	return m.d.Cmp(other.d)
}

// Equal reports whether m and other represent the same amount.
func (m Money) Equal(other Money) bool {
	return m.d.Equal(other.d)
}

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool {
	return m.d.LessThan(other.d)
}

// IsZero reports whether m is zero.
func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool {
	return m.d.IsPositive()
}

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

// String renders the amount with the canonical scale.
func (m Money) String() string {
	return m.d.StringFixed(moneyScale)
}

// MarshalJSON encodes the amount as a JSON number string.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.d.MarshalJSON()
}

// UnmarshalJSON decodes a JSON number or string into Money.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}

	m.d = roundPolicy(d)

	return nil
}
