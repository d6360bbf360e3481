// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package value implements the arbitrary-precision integer value type
// the evaluator is generic over: addition, subtraction,
// multiplication, truncating division, a zero test, and decimal
// parsing/rendering, backed by math/big.
package value

import (
	"errors"
	"math/big"
)

// ErrInvalidNumber is returned by ParseDecimal when the digit string
// is not a valid (optionally signed) decimal integer.
var ErrInvalidNumber = errors.New("value: invalid number")

// ErrDivideByZero is returned by Div when the divisor is zero.
var ErrDivideByZero = errors.New("value: division by zero")

// Value is an arbitrary-precision integer.
type Value struct {
	v *big.Int
}

// Zero is the additive identity.
var Zero = Value{v: big.NewInt(0)}

// ParseDecimal parses a decimal digit string, with an optional leading
// '-', into a Value. It rejects anything math/big's decimal parser
// rejects, including the empty string.
func ParseDecimal(digits string) (Value, error) {
	if digits == "" {
		return Value{}, ErrInvalidNumber
	}
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Value{}, ErrInvalidNumber
	}
	return Value{v: v}, nil
}

// Add returns a + b.
func (a Value) Add(b Value) Value {
	return Value{v: new(big.Int).Add(a.v, b.v)}
}

// Sub returns a - b.
func (a Value) Sub(b Value) Value {
	return Value{v: new(big.Int).Sub(a.v, b.v)}
}

// Mul returns a * b.
func (a Value) Mul(b Value) Value {
	return Value{v: new(big.Int).Mul(a.v, b.v)}
}

// Div returns a / b, truncating toward zero. Callers that have already
// rejected b == 0 (the evaluator's core does, ahead of every Div call)
// will never see ErrDivideByZero; it exists so Div is safe to call
// directly without duplicating that check.
func (a Value) Div(b Value) (Value, error) {
	if b.IsZero() {
		return Value{}, ErrDivideByZero
	}
	return Value{v: new(big.Int).Quo(a.v, b.v)}, nil
}

// IsZero reports whether the value equals zero.
func (a Value) IsZero() bool {
	return a.v == nil || a.v.Sign() == 0
}

// String renders the value in base 10.
func (a Value) String() string {
	if a.v == nil {
		return "0"
	}
	return a.v.String()
}
