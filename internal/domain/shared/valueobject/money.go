package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits stored for every amount
const MoneyPlaces int32 = 2

// MaxMoneyAmount is the largest magnitude a NUMERIC(10,2) column holds
var MaxMoneyAmount = decimal.RequireFromString("99999999.99")

var (
	ErrTooManyDecimals = errors.New("amount has more than 2 decimal places")
	ErrNotNumeric      = errors.New("amount must be numeric")
	ErrOutOfRange      = errors.New("amount must not exceed 99999999.99")
)

// Money is a value object representing a monetary amount in the
// ledger's single currency. It is immutable; all operations return
// new Money instances.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates Money from a decimal. Amounts that cannot be stored
// with two fractional digits are rejected rather than rounded, as are
// amounts beyond MaxMoneyAmount in either direction.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if !amount.Equal(amount.Truncate(MoneyPlaces)) {
		return Money{}, ErrTooManyDecimals
	}
	if amount.Abs().GreaterThan(MaxMoneyAmount) {
		return Money{}, ErrOutOfRange
	}
	return Money{amount: amount}, nil
}

// NewMoneyFromString parses Money from its decimal string form
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, ErrNotNumeric
	}
	return NewMoney(d)
}

// MustMoney parses Money and panics on error. Intended for constants and tests.
func MustMoney(amount string) Money {
	m, err := NewMoneyFromString(amount)
	if err != nil {
		panic(fmt.Sprintf("invalid money %q: %v", amount, err))
	}
	return m
}

// MoneyOf wraps an amount read back from storage, rounding to two
// places. Stored columns are NUMERIC(10,2) so rounding only trims
// float noise from drivers that return sums as floats.
func MoneyOf(amount decimal.Decimal) Money {
	return Money{amount: amount.Round(MoneyPlaces)}
}

// Zero returns a zero amount
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

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns the sum of both amounts
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Subtract returns the difference. The result may be negative.
func (m Money) Subtract(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Equals returns true if both amounts are equal
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

// String returns the amount with exactly two fractional digits
func (m Money) String() string {
	return m.amount.StringFixed(MoneyPlaces)
}

// MarshalJSON renders the amount as a fixed-point string, e.g. "150.00"
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts both "150.00" and 150.00
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	parsed, err := NewMoneyFromString(raw)
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
func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("cannot scan %T into Money: %w", value, err)
	}
	m.amount = d
	return nil
}

// SumMoney adds up a list of amounts
func SumMoney(amounts ...Money) Money {
	total := Zero()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
