package number

import (
	"errors"

	"github.com/holiman/uint256"
)

// Every operation returns a fresh value and never mutates its operands.
// Divisions truncate toward zero.

var (
	// ErrOverflow result does not fit in 256 bits
	ErrOverflow = errors.New("number: overflow")
	// ErrUnderflow unsigned subtraction below zero
	ErrUnderflow = errors.New("number: underflow")
	// ErrDivisionByZero zero divisor
	ErrDivisionByZero = errors.New("number: division by zero")
)

// Exp10 10^n
func Exp10(n uint64) *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(n))
}

// Zero new zero value
func Zero() *uint256.Int {
	return new(uint256.Int)
}

// Clone copy of v, zero for nil
func Clone(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}

	return new(uint256.Int).Set(v)
}

// Add x + y
func Add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}

	return z, nil
}

// Sub x - y
func Sub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, ErrUnderflow
	}

	return z, nil
}

// Mul x * y
func Mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}

	return z, nil
}

// Div x / y, truncated
func Div(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, ErrDivisionByZero
	}

	return new(uint256.Int).Div(x, y), nil
}

// MulDiv x * y / d, truncated.
//
// The product is kept in 512 bits so only a quotient wider than 256 bits
// overflows.
func MulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivisionByZero
	}

	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, ErrOverflow
	}

	return z, nil
}
