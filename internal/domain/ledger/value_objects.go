package ledger

import (
	"errors"

	"cashback-ledger/internal/pkg/cpf"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeAmount     = errors.New("amount cannot be negative")
	ErrNonPositiveAmount  = errors.New("amount must be positive")
	ErrInvalidPercentage  = errors.New("percentage must be between 0 and 100")
	ErrInvalidCustomerID  = errors.New("invalid customer id")
	ErrEmptyAuthorization = errors.New("authorization agent is required")
)

// Money is a BRL amount with two decimal places.
type Money struct {
	amount decimal.Decimal
}

func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return Money{amount: amount.Round(2)}, nil
}

func NewMoneyFromFloat(v float64) (Money, error) {
	return NewMoney(decimal.NewFromFloat(v))
}

func MustMoneyFromString(s string) Money {
	m, err := NewMoney(decimal.RequireFromString(s))
	if err != nil {
		panic(err)
	}
	return m
}

func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

func (m Money) Decimal() decimal.Decimal { return m.amount }
func (m Money) String() string           { return m.amount.StringFixed(2) }

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub panics when the result would be negative; callers compare first.
func (m Money) Sub(other Money) Money {
	r := m.amount.Sub(other.amount)
	if r.IsNegative() {
		panic("money subtraction went negative")
	}
	return Money{amount: r}
}

func (m Money) Min(other Money) Money {
	if m.amount.LessThan(other.amount) {
		return m
	}
	return other
}

func (m Money) IsZero() bool              { return m.amount.IsZero() }
func (m Money) IsPositive() bool          { return m.amount.IsPositive() }
func (m Money) LessThan(o Money) bool     { return m.amount.LessThan(o.amount) }
func (m Money) GreaterThan(o Money) bool  { return m.amount.GreaterThan(o.amount) }
func (m Money) Equal(o Money) bool        { return m.amount.Equal(o.amount) }

// Percentage is a cashback percentage in [0, 100].
type Percentage struct {
	value decimal.Decimal
}

func NewPercentage(value decimal.Decimal) (Percentage, error) {
	if value.IsNegative() || value.GreaterThan(decimal.NewFromInt(100)) {
		return Percentage{}, ErrInvalidPercentage
	}
	return Percentage{value: value}, nil
}

func NewPercentageFromFloat(v float64) (Percentage, error) {
	return NewPercentage(decimal.NewFromFloat(v))
}

func (p Percentage) Decimal() decimal.Decimal { return p.value }
func (p Percentage) String() string           { return p.value.String() }

// Of returns value * p / 100 rounded to cents.
func (p Percentage) Of(value Money) Money {
	return Money{amount: value.amount.Mul(p.value).Div(decimal.NewFromInt(100)).Round(2)}
}

// CustomerID is a CPF normalized to digits only.
type CustomerID string

func NewCustomerID(raw string) (CustomerID, error) {
	digits, err := cpf.Normalize(raw)
	if err != nil {
		return "", ErrInvalidCustomerID
	}
	return CustomerID(digits), nil
}

func (c CustomerID) String() string { return string(c) }
