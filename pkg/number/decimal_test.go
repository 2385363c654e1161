package number

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseUnits(t *testing.T) {
	data := map[string]string{
		"2000":                  "2000000000000000000000",
		"26.25":                 "26250000000000000000",
		"0.000000000000000001":  "1",
		"1.000000000000000001":  "1000000000000000001",
		"1.5000000000000000000": "1500000000000000000",
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			u, err := ParseUnits(k, 18)
			require.Nil(t, err)
			assert.Equal(t, v, u.Dec())
		})
	}
}

func TestParseUnitsRejectsExtraDigits(t *testing.T) {
	for _, v := range []string{"1.9", "0.5", "1e-30"} {
		_, err := ParseUnits(v, 0)
		assert.Equal(t, ErrPrecision, err, v)
	}

	_, err := ParseUnits("1.0000000000000000019", 18)
	assert.Equal(t, ErrPrecision, err)

	u, err := ParseUnits("12.000", 0)
	require.Nil(t, err)
	assert.Equal(t, "12", u.Dec())
}

func TestFromDecimalTruncates(t *testing.T) {
	u, err := FromDecimal(decimal.RequireFromString("1.0000000000000000019"), 18)
	require.Nil(t, err)
	assert.Equal(t, "1000000000000000001", u.Dec())
}

func TestParseUnitsRejectsNegative(t *testing.T) {
	_, err := ParseUnits("-1", 18)
	require.NotNil(t, err)

	_, err = ParseUnits("abc", 18)
	require.NotNil(t, err)
}

func TestToDecimal(t *testing.T) {
	v := uint256.MustFromDecimal("26250000000000000000")
	assert.Equal(t, "26.25", ToDecimal(v, 18).String())
	assert.Equal(t, "0", ToDecimal(nil, 18).String())
	assert.Equal(t, true, ToDecimal(v, 18).Equal(decimal.RequireFromString("26.25")))
}
