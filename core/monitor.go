package core

import (
	"time"

	"github.com/holiman/uint256"
)

// AccountHealth health snapshot of one account
type AccountHealth struct {
	UserID       string       `json:"user_id"`
	HealthFactor *uint256.Int `json:"health_factor"`
	DepositUsd   *uint256.Int `json:"deposit_usd"`
	BorrowUsd    *uint256.Int `json:"borrow_usd"`
}

// HealthScan result of one monitor pass
type HealthScan struct {
	Accounts     int              `json:"accounts"`
	Liquidatable []*AccountHealth `json:"liquidatable"`
	// Failed accounts whose health could not be valued, their state is unknown
	Failed    []string  `json:"failed"`
	ScannedAt time.Time `json:"scanned_at"`
}

// IHealthMonitor latest scan of all accounts
type IHealthMonitor interface {
	Latest() *HealthScan
}
