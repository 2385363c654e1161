package views

import (
	"time"

	"borrowlend/core"
	"borrowlend/pkg/lending"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Account raw balances of one account, amounts in asset-native units
type Account struct {
	UserID   string            `json:"user_id"`
	Native   string            `json:"native"`
	Deposits map[string]string `json:"deposits"`
	Borrows  map[string]string `json:"borrows"`
}

// AccountView account view
func AccountView(b *core.AccountBalances) Account {
	view := Account{
		UserID:   b.UserID,
		Native:   amount(b.Native),
		Deposits: make(map[string]string, len(b.Deposits)),
		Borrows:  make(map[string]string, len(b.Borrows)),
	}

	for assetID, v := range b.Deposits {
		view.Deposits[assetID] = amount(v)
	}

	for assetID, v := range b.Borrows {
		view.Borrows[assetID] = amount(v)
	}

	return view
}

// Health health factor and usd totals of one account
type Health struct {
	UserID       string          `json:"user_id"`
	HealthFactor decimal.Decimal `json:"health_factor"`
	DepositUsd   decimal.Decimal `json:"deposit_usd"`
	BorrowUsd    decimal.Decimal `json:"borrow_usd"`
	Liquidatable bool            `json:"liquidatable"`
}

// HealthView health view
func HealthView(userID string, hf *uint256.Int, info *core.UserInformation) Health {
	return Health{
		UserID:       userID,
		HealthFactor: HealthFactor(hf),
		DepositUsd:   Usd(info.DepositUsd),
		BorrowUsd:    Usd(info.BorrowUsd),
		Liquidatable: !lending.Healthy(hf),
	}
}

// HealthScan latest monitor result
type HealthScan struct {
	Accounts     int      `json:"accounts"`
	Liquidatable []Health `json:"liquidatable"`
	Failed       []string `json:"failed"`
	ScannedAt    string   `json:"scanned_at,omitempty"`
}

// HealthScanView health scan view
func HealthScanView(scan *core.HealthScan) HealthScan {
	view := HealthScan{Liquidatable: []Health{}, Failed: []string{}}
	if scan == nil {
		return view
	}

	view.Accounts = scan.Accounts
	view.Failed = append(view.Failed, scan.Failed...)
	if !scan.ScannedAt.IsZero() {
		view.ScannedAt = scan.ScannedAt.UTC().Format(time.RFC3339)
	}

	for _, h := range scan.Liquidatable {
		view.Liquidatable = append(view.Liquidatable, HealthView(h.UserID, h.HealthFactor, &core.UserInformation{
			DepositUsd: h.DepositUsd,
			BorrowUsd:  h.BorrowUsd,
		}))
	}

	return view
}
