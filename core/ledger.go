package core

import (
	"context"

	"github.com/holiman/uint256"
)

// UserInformation usd totals of one account
type UserInformation struct {
	BorrowUsd  *uint256.Int `json:"borrow_usd"`
	DepositUsd *uint256.Int `json:"deposit_usd"`
}

// Liquidation settlement computed and executed by one liquidate call
type Liquidation struct {
	Account       string       `json:"account"`
	Liquidator    string       `json:"liquidator"`
	RepayAssetID  string       `json:"repay_asset_id"`
	RewardAssetID string       `json:"reward_asset_id"`
	HalfDebt      *uint256.Int `json:"half_debt"`
	HalfDebtUsd   *uint256.Int `json:"half_debt_usd"`
	RewardUsd     *uint256.Int `json:"reward_usd"`
	Payout        *uint256.Int `json:"payout"`
}

// ILedgerService borrow/lend ledger operations
type ILedgerService interface {
	DepositNative(ctx context.Context, userID string, amount *uint256.Int) error
	DepositAsset(ctx context.Context, userID, assetID string, amount *uint256.Int) error
	Borrow(ctx context.Context, userID, assetID string, amount *uint256.Int) error
	Repay(ctx context.Context, payer, userID, assetID string, amount *uint256.Int) error
	Withdraw(ctx context.Context, userID, assetID string, amount *uint256.Int) error
	WithdrawNative(ctx context.Context, userID string, amount *uint256.Int) error
	Liquidate(ctx context.Context, liquidator, userID, repayAssetID, rewardAssetID string) (*Liquidation, error)
	LiquidateForNative(ctx context.Context, liquidator, userID, repayAssetID string) (*Liquidation, error)

	SetAsset(ctx context.Context, assetID, feedID string) error
	SetNativeFeed(ctx context.Context, feedID string) error

	HealthFactor(ctx context.Context, userID string) (*uint256.Int, error)
	UserInformation(ctx context.Context, userID string) (*UserInformation, error)
	UsdValue(ctx context.Context, assetID string, amount *uint256.Int) (*uint256.Int, error)
	AmountFromUsd(ctx context.Context, assetID string, usd *uint256.Int) (*uint256.Int, error)
	TotalLedgerBalance(ctx context.Context) (*uint256.Int, error)

	Assets(ctx context.Context) ([]*Asset, error)
	NativeFeed(ctx context.Context) string
	Accounts(ctx context.Context) []string
	Balances(ctx context.Context, userID string) *AccountBalances
}
