package views

import (
	"borrowlend/core"

	"github.com/shopspring/decimal"
)

// Liquidation settled liquidation
type Liquidation struct {
	Account       string          `json:"account"`
	Liquidator    string          `json:"liquidator"`
	RepayAssetID  string          `json:"repay_asset_id"`
	RewardAssetID string          `json:"reward_asset_id"`
	HalfDebt      string          `json:"half_debt"`
	HalfDebtUsd   decimal.Decimal `json:"half_debt_usd"`
	RewardUsd     decimal.Decimal `json:"reward_usd"`
	Payout        string          `json:"payout"`
}

// LiquidationView liquidation view
func LiquidationView(l *core.Liquidation) Liquidation {
	return Liquidation{
		Account:       l.Account,
		Liquidator:    l.Liquidator,
		RepayAssetID:  l.RepayAssetID,
		RewardAssetID: l.RewardAssetID,
		HalfDebt:      amount(l.HalfDebt),
		HalfDebtUsd:   Usd(l.HalfDebtUsd),
		RewardUsd:     Usd(l.RewardUsd),
		Payout:        amount(l.Payout),
	}
}
