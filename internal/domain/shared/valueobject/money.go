package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code.
type Currency string

const (
	INR Currency = "INR"
	USD Currency = "USD"
)

// ErrCurrencyMismatch is returned by operations that combine or compare
// amounts in different currencies.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Money pairs a decimal amount with its currency. The shop bills in INR,
// so INR constructors are the common path; the currency is still carried
// explicitly so mixed-currency arithmetic fails loudly instead of
// producing a meaningless sum. Money is immutable.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney builds a Money in the given currency.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency is required")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyINR builds a rupee amount.
func NewMoneyINR(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: INR}
}

// ZeroINR is the zero rupee amount.
func ZeroINR() Money {
	return Money{amount: decimal.Zero, currency: INR}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency      { return m.currency }

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return nil
}

// Add sums two amounts in the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns m minus other, requiring matching currencies.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Min returns the smaller of two amounts in the same currency.
func (m Money) Min(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	if m.amount.LessThanOrEqual(other.amount) {
		return m, nil
	}
	return other, nil
}

// Equals reports whether amount and currency both match.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String renders the amount to two decimal places with its currency code.
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + string(m.currency)
}

type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

// MarshalJSON encodes the amount as a string to keep decimal precision
// across the wire.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount.String(), Currency: m.currency})
}

// UnmarshalJSON decodes the string-amount form produced by MarshalJSON.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return fmt.Errorf("invalid money amount %q: %w", v.Amount, err)
	}
	m.amount = amount
	m.currency = v.Currency
	return nil
}
