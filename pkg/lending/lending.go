package lending

import (
	"borrowlend/pkg/number"

	"github.com/holiman/uint256"
)

const (
	// LiquidationThresholdPct share of raw deposit value counted as collateral
	LiquidationThresholdPct = 70
	// LiquidationRewardPct liquidator bonus on top of the repaid usd value
	LiquidationRewardPct = 5
	// PricePrecision decimals of prices and usd values
	PricePrecision = 18
	// HealthPrecision decimals of the health factor, 1e8 == 100%
	HealthPrecision = 8
)

var (
	// Precision 1e18
	Precision = number.Exp10(PricePrecision)
	// MinHealthFactor 1e8, a position below it is liquidatable
	MinHealthFactor = number.Exp10(HealthPrecision)
	// MaxHealthFactor sentinel returned for accounts without debt, 100x the minimum
	MaxHealthFactor = new(uint256.Int).Mul(MinHealthFactor, uint256.NewInt(100))

	hundred = uint256.NewInt(100)
)

// UsdValue amount * price / 1e18, truncated
func UsdValue(amount, price *uint256.Int) (*uint256.Int, error) {
	return number.MulDiv(amount, price, Precision)
}

// AmountFromUsd usd * 1e18 / price, truncated
func AmountFromUsd(usd, price *uint256.Int) (*uint256.Int, error) {
	return number.MulDiv(usd, Precision, price)
}

// HealthFactor (depositUsd * 70 / 100) * 1e8 / borrowUsd, or MaxHealthFactor without debt
func HealthFactor(depositUsd, borrowUsd *uint256.Int) (*uint256.Int, error) {
	if borrowUsd.IsZero() {
		return number.Clone(MaxHealthFactor), nil
	}

	weighted, err := number.MulDiv(depositUsd, uint256.NewInt(LiquidationThresholdPct), hundred)
	if err != nil {
		return nil, err
	}

	return number.MulDiv(weighted, MinHealthFactor, borrowUsd)
}

// Healthy hf >= MinHealthFactor
func Healthy(hf *uint256.Int) bool {
	return !hf.Lt(MinHealthFactor)
}

// HalfDebt borrow / 2, truncated
func HalfDebt(borrow *uint256.Int) *uint256.Int {
	return new(uint256.Int).Rsh(borrow, 1)
}

// LiquidationReward halfDebtUsd * 5 / 100, truncated
func LiquidationReward(halfDebtUsd *uint256.Int) (*uint256.Int, error) {
	return number.MulDiv(halfDebtUsd, uint256.NewInt(LiquidationRewardPct), hundred)
}
