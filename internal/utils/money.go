package utils

import (
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for prices.
const MoneyScale = 2

// Money is a fixed-precision amount. It scans from and stores into DECIMAL
// columns and renders as a JSON number with exactly MoneyScale digits.
type Money struct {
	decimal.Decimal
}

// ParseMoney parses a decimal string such as "299.99".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Decimal: d}, nil
}

// MustMoney is ParseMoney for literals known to be valid.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Rounded rounds half away from zero to MoneyScale digits.
func (m Money) Rounded() Money {
	return Money{Decimal: m.Decimal.Round(MoneyScale)}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(FormatMoney(m)), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	return m.Decimal.UnmarshalJSON(b)
}

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(m Money) string {
	return m.StringFixed(MoneyScale)
}
