package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// maxIntegerDigits bounds the integer part of any stored amount. The backing
// columns are NUMERIC(14,2), so amounts with more than 12 integer digits
// cannot be persisted without truncation and are rejected up front.
const maxIntegerDigits = 12

// Money is a value object representing a monetary amount with a fixed
// 2-decimal precision. It is immutable - all operations return new instances.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates Money from a decimal, rounded half-up to 2 places
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount.Round(2)}
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d), nil
}

// NewMoneyFromFloat creates Money from a float64 value
func NewMoneyFromFloat(amount float64) Money {
	return NewMoney(decimal.NewFromFloat(amount))
}

// ZeroMoney returns a zero-value Money
func ZeroMoney() Money {
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

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Add returns a new Money with the sum of both amounts
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// MultiplyInt returns the amount multiplied by an integer quantity
func (m Money) MultiplyInt(n int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n))).Round(2)}
}

// Equals reports whether both amounts are numerically equal
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// LessThan reports whether the amount is less than the other
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// WithinPrecision reports whether the amount fits the storage precision
func (m Money) WithinPrecision() bool {
	abs := m.amount.Abs().Truncate(0)
	limit := decimal.New(1, maxIntegerDigits)
	return abs.LessThan(limit)
}

// String returns the amount formatted with exactly 2 decimal places
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON implements json.Marshaler, emitting a fixed 2-decimal string
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON implements json.Unmarshaler, accepting strings and numbers
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("invalid money value: %s", string(data))
		}
		*m = NewMoneyFromFloat(f)
		return nil
	}
	parsed, err := NewMoneyFromString(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (m *Money) Scan(value interface{}) error {
	if value == nil {
		*m = ZeroMoney()
		return nil
	}

	switch v := value.(type) {
	case string:
		parsed, err := NewMoneyFromString(v)
		if err != nil {
			return err
		}
		*m = parsed
	case []byte:
		parsed, err := NewMoneyFromString(string(v))
		if err != nil {
			return err
		}
		*m = parsed
	case float64:
		*m = NewMoneyFromFloat(v)
	case int64:
		*m = NewMoney(decimal.NewFromInt(v))
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}
	return nil
}
