package core

import (
	"time"

	"github.com/holiman/uint256"
)

// BalanceKind deposit or borrow
type BalanceKind int

const (
	// BalanceKindDeposit collateral deposited by the account
	BalanceKindDeposit BalanceKind = iota + 1
	// BalanceKindBorrow debt owed by the account
	BalanceKindBorrow
)

func (k BalanceKind) String() string {
	switch k {
	case BalanceKindDeposit:
		return "deposit"
	case BalanceKindBorrow:
		return "borrow"
	default:
		return "unknown"
	}
}

// Balance one row of the balance mappings.
//
// Native deposits use AssetID == NativeAssetID. Amount is the decimal string
// of an unsigned 256-bit integer in asset-native decimals.
type Balance struct {
	ID        uint64      `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"-"`
	UserID    string      `sql:"size:64;unique_index:balance_idx" json:"user_id"`
	AssetID   string      `sql:"size:64;unique_index:balance_idx" json:"asset_id"`
	Kind      BalanceKind `sql:"unique_index:balance_idx" json:"kind"`
	Amount    string      `sql:"size:80" json:"amount"`
	CreatedAt time.Time   `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time   `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Value parse the stored amount
func (b *Balance) Value() (*uint256.Int, error) {
	if b.Amount == "" {
		return new(uint256.Int), nil
	}

	return uint256.FromDecimal(b.Amount)
}

// AccountBalances raw balances of one account
type AccountBalances struct {
	UserID   string                  `json:"user_id"`
	Native   *uint256.Int            `json:"native"`
	Deposits map[string]*uint256.Int `json:"deposits"`
	Borrows  map[string]*uint256.Int `json:"borrows"`
}
