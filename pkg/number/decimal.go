package number

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var (
	errNegative = errors.New("number: negative value")
	// ErrPrecision the value carries more fractional digits than the target places
	ErrPrecision = errors.New("number: too many decimal places")
)

// Decimal parse v, zero on malformed input
func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// FromDecimal scale d by 10^places and truncate toward zero
func FromDecimal(d decimal.Decimal, places int32) (*uint256.Int, error) {
	if d.IsNegative() {
		return nil, errNegative
	}

	v, overflow := uint256.FromBig(d.Shift(places).Truncate(0).BigInt())
	if overflow {
		return nil, ErrOverflow
	}

	return v, nil
}

// ToDecimal the human value of a fixed-point integer with the given places
func ToDecimal(v *uint256.Int, places int32) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(v.ToBig(), -places)
}

// ParseUnits parse a human decimal string into fixed-point with the given places,
// digits beyond places fail with ErrPrecision
func ParseUnits(v string, places int32) (*uint256.Int, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, err
	}

	if scaled := d.Shift(places); !scaled.Equal(scaled.Truncate(0)) {
		return nil, ErrPrecision
	}

	return FromDecimal(d, places)
}
