package reservation

import (
	"errors"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrInvalidStatus   = errors.New("invalid reservation status")
)

type Quantity struct {
	units int
}

func NewQuantity(units int) (Quantity, error) {
	if units < 1 {
		return Quantity{}, ErrInvalidQuantity
	}
	return Quantity{units: units}, nil
}

func (q Quantity) Int() int {
	return q.units
}

// Money is an amount in the smallest currency unit.
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) IsZero() bool {
	return m.cents == 0
}
