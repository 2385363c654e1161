package bank

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"borrowlend/core"
	"borrowlend/pkg/number"

	"github.com/holiman/uint256"
)

var (
	// ErrInsufficientFunds sender balance too small
	ErrInsufficientFunds = errors.New("bank: insufficient funds")
	// ErrInvalidTransfer malformed transfer
	ErrInvalidTransfer = errors.New("bank: invalid transfer")
)

type key struct {
	asset string
	user  string
}

// Bank in-memory fungible asset and native value book.
//
// It plays both collaborator roles of the ledger: asset transfers between any
// two accounts and native value moving in and out of the custody account.
type Bank struct {
	mux      sync.Mutex
	custody  string
	balances map[key]*uint256.Int
}

// New new bank, native value sent to or received by the ledger moves through custody
func New(custody string) *Bank {
	return &Bank{
		custody:  custody,
		balances: make(map[key]*uint256.Int),
	}
}

// Custody the ledger custody account
func (b *Bank) Custody() string {
	return b.custody
}

// Mint create amount of asset for user
func (b *Bank) Mint(ctx context.Context, assetID, userID string, amount *uint256.Int) error {
	b.mux.Lock()
	defer b.mux.Unlock()

	k := key{asset: assetID, user: userID}
	v, err := number.Add(b.get(k), amount)
	if err != nil {
		return err
	}

	b.balances[k] = v
	return nil
}

// BalanceOf balance of user in asset
func (b *Bank) BalanceOf(ctx context.Context, assetID, userID string) (*uint256.Int, error) {
	b.mux.Lock()
	defer b.mux.Unlock()

	return number.Clone(b.get(key{asset: assetID, user: userID})), nil
}

// Transfer move an asset between two accounts
func (b *Bank) Transfer(ctx context.Context, transfer *core.Transfer) error {
	if transfer == nil || transfer.Amount == nil || transfer.From == "" || transfer.To == "" {
		return ErrInvalidTransfer
	}

	b.mux.Lock()
	defer b.mux.Unlock()

	return b.move(transfer.AssetID, transfer.From, transfer.To, transfer.Amount)
}

// Receive native value attached by from
func (b *Bank) Receive(ctx context.Context, from string, amount *uint256.Int) error {
	b.mux.Lock()
	defer b.mux.Unlock()

	return b.move(core.NativeAssetID, from, b.custody, amount)
}

// Send native value out of custody
func (b *Bank) Send(ctx context.Context, to string, amount *uint256.Int) error {
	b.mux.Lock()
	defer b.mux.Unlock()

	return b.move(core.NativeAssetID, b.custody, to, amount)
}

// Balance native value held by custody
func (b *Bank) Balance(ctx context.Context) (*uint256.Int, error) {
	return b.BalanceOf(ctx, core.NativeAssetID, b.custody)
}

func (b *Bank) get(k key) *uint256.Int {
	if v, ok := b.balances[k]; ok {
		return v
	}

	return number.Zero()
}

func (b *Bank) move(assetID, from, to string, amount *uint256.Int) error {
	fk := key{asset: assetID, user: from}
	tk := key{asset: assetID, user: to}

	fv, err := number.Sub(b.get(fk), amount)
	if err != nil {
		return fmt.Errorf("%s of %s: %w", assetID, from, ErrInsufficientFunds)
	}

	if from == to {
		return nil
	}

	tv, err := number.Add(b.get(tk), amount)
	if err != nil {
		return err
	}

	b.balances[fk] = fv
	b.balances[tk] = tv
	return nil
}
