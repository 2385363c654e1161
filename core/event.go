package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// EventAction event action
type EventAction string

const (
	EventActionDepositNative   EventAction = "deposit_native"
	EventActionDeposit         EventAction = "deposit"
	EventActionBorrow          EventAction = "borrow"
	EventActionRepay           EventAction = "repay"
	EventActionWithdraw        EventAction = "withdraw"
	EventActionWithdrawNative  EventAction = "withdraw_native"
	EventActionLiquidate       EventAction = "liquidate"
	EventActionLiquidateNative EventAction = "liquidate_native"
	EventActionSetAsset        EventAction = "set_asset"
	EventActionSetNativeFeed   EventAction = "set_native_feed"
)

// Event recorded for every committed operation
type Event struct {
	ID        int64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID   string         `sql:"size:36;unique_index:idx_events_trace_id" json:"trace_id"`
	Action    EventAction    `sql:"size:24" json:"action"`
	UserID    string         `sql:"size:64;index:idx_events_user_id" json:"user_id"`
	AssetID   string         `sql:"size:64" json:"asset_id,omitempty"`
	Amount    string         `sql:"size:80" json:"amount,omitempty"`
	Data      types.JSONText `sql:"type:TEXT" json:"data,omitempty"`
	CreatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// LiquidationData payload of liquidate events
type LiquidationData struct {
	Account       string `json:"account"`
	RepayAssetID  string `json:"repay_asset_id"`
	RewardAssetID string `json:"reward_asset_id"`
	HalfDebt      string `json:"half_debt"`
	HalfDebtUsd   string `json:"half_debt_usd"`
	Payout        string `json:"payout"`
	Liquidator    string `json:"liquidator"`
}

// SetExtraData encode payload as json
func (e *Event) SetExtraData(v interface{}) {
	data := []byte("{}")
	if v != nil {
		if bs, err := json.Marshal(v); err == nil {
			data = bs
		}
	}

	e.Data = data
}

// Changeset state written together in one store transaction
type Changeset struct {
	Assets   []*Asset
	Balances []*Balance
	Events   []*Event
}

// LedgerStore durable state surface of the ledger
type LedgerStore interface {
	// Assets registry rows in enumeration order, the native feed row included
	Assets(ctx context.Context) ([]*Asset, error)
	// Balances load every persisted balance row
	Balances(ctx context.Context) ([]*Balance, error)
	// Commit write the changeset atomically
	Commit(ctx context.Context, cs *Changeset) error
	// ListEvents events with id > from, ascending
	ListEvents(ctx context.Context, from int64, limit int) ([]*Event, error)
}
