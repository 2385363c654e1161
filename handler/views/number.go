package views

import (
	"borrowlend/pkg/lending"
	"borrowlend/pkg/number"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Usd human usd value of an 18-decimal amount
func Usd(v *uint256.Int) decimal.Decimal {
	return number.ToDecimal(v, lending.PricePrecision)
}

// HealthFactor human health factor, 1 == 100%
func HealthFactor(v *uint256.Int) decimal.Decimal {
	return number.ToDecimal(v, lending.HealthPrecision)
}

func amount(v *uint256.Int) string {
	if v == nil {
		return "0"
	}

	return v.Dec()
}
