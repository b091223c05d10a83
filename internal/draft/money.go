package draft

import (
	"strings"

	"github.com/franciscosanchezn/taist-api/internal/validation"
	"github.com/shopspring/decimal"
)

// Money is a dollar amount. It is parsed from what the user typed and only
// rendered back to text for editing, so the text and the number cannot drift.
type Money struct {
	amount decimal.Decimal
}

// ParseMoney accepts "12", "12.5", "$12.50". Amounts that are not positive
// after rounding to cents are rejected with the pricing step message.
func ParseMoney(text string) (Money, error) {
	if err := validation.Price(text); err != nil {
		return Money{}, err
	}
	amount, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(text), "$"))
	if err != nil {
		return Money{}, err
	}
	return Money{amount: amount.Round(2)}, nil
}

// ParseUpcharge is like ParseMoney but allows zero; blank text means no upcharge.
func ParseUpcharge(text string) (Money, error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(text), "$")
	if cleaned == "" {
		return Money{}, nil
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil || amount.IsNegative() {
		return Money{}, &validation.Error{Field: "upcharge_price", Message: validation.MsgInvalidUpcharge}
	}
	return Money{amount: amount.Round(2)}, nil
}

// MoneyFromFloat converts a server amount.
func MoneyFromFloat(f float64) Money {
	return Money{amount: decimal.NewFromFloat(f).Round(2)}
}

// EditableString renders the amount for a text input, always with cents.
func (m Money) EditableString() string {
	return m.amount.StringFixed(2)
}

func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) String() string {
	return "$" + m.EditableString()
}
