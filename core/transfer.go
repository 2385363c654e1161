package core

import (
	"context"

	"github.com/holiman/uint256"
)

// Transfer one movement of an asset between two accounts
type Transfer struct {
	AssetID string       `json:"asset_id"`
	From    string       `json:"from"`
	To      string       `json:"to"`
	Amount  *uint256.Int `json:"amount"`
}

// Reverse the compensating movement
func (t *Transfer) Reverse() *Transfer {
	return &Transfer{
		AssetID: t.AssetID,
		From:    t.To,
		To:      t.From,
		Amount:  new(uint256.Int).Set(t.Amount),
	}
}

// AssetService fungible asset collaborator.
//
// Calls made by the ledger hold its lock. An implementation that calls back
// into the ledger must pass on the ctx it received; a callback with a fresh
// context blocks on the lock forever.
type AssetService interface {
	BalanceOf(ctx context.Context, assetID, userID string) (*uint256.Int, error)
	Transfer(ctx context.Context, transfer *Transfer) error
}

// NativeService value transfer collaborator for the native currency.
//
// Receive moves value attached by from into custody, Send pays out of custody.
// Callbacks into the ledger must reuse the received ctx, as for AssetService.
type NativeService interface {
	Receive(ctx context.Context, from string, amount *uint256.Int) error
	Send(ctx context.Context, to string, amount *uint256.Int) error
	Balance(ctx context.Context) (*uint256.Int, error)
}
