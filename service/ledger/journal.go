package ledger

import (
	"context"
	"fmt"

	"borrowlend/core"
	"borrowlend/pkg/id"
	"borrowlend/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

// txn one in-flight operation.
//
// Every state mutation pushes an undo entry and every completed external
// movement pushes a compensation; rollback replays both in reverse order.
type txn struct {
	ctx     context.Context
	s       *Service
	undo    []func()
	comps   []func(ctx context.Context) error
	dirty   []balanceKey
	touched map[balanceKey]bool
	assets  []*core.Asset
	events  []*core.Event
}

func (s *Service) begin(ctx context.Context) *txn {
	return &txn{
		ctx:     ctx,
		s:       s,
		touched: map[balanceKey]bool{},
	}
}

func (tx *txn) write(k balanceKey, v *uint256.Int) {
	old := tx.s.state.get(k)
	tx.undo = append(tx.undo, func() { tx.s.state.set(k, old) })
	tx.s.state.set(k, v)

	if !tx.touched[k] {
		tx.touched[k] = true
		tx.dirty = append(tx.dirty, k)
	}
}

func (tx *txn) credit(k balanceKey, amount *uint256.Int) error {
	v, err := number.Add(tx.s.state.get(k), amount)
	if err != nil {
		return arithmetic(err)
	}

	tx.write(k, v)
	return nil
}

// debit fails with number.ErrUnderflow, callers translate it into the typed error
func (tx *txn) debit(k balanceKey, amount *uint256.Int) error {
	v, err := number.Sub(tx.s.state.get(k), amount)
	if err != nil {
		return err
	}

	tx.write(k, v)
	return nil
}

func (tx *txn) bind(asset *core.Asset, feedID string) {
	old := *asset
	tx.undo = append(tx.undo, func() { *asset = old })
	asset.FeedID = feedID
	tx.assets = append(tx.assets, asset)
}

func (tx *txn) register(asset *core.Asset) {
	r := tx.s.registry
	n := len(r.assets)
	tx.undo = append(tx.undo, func() { r.assets = r.assets[:n] })
	r.assets = append(r.assets, asset)
	tx.assets = append(tx.assets, asset)
}

func (tx *txn) bindNative(feedID string) {
	r := tx.s.registry
	old := r.nativeFeed
	tx.undo = append(tx.undo, func() { r.nativeFeed = old })
	r.nativeFeed = feedID
	tx.assets = append(tx.assets, &core.Asset{AssetID: core.NativeAssetID, FeedID: feedID})
}

func (tx *txn) transfer(t *core.Transfer) error {
	if err := tx.s.assets.Transfer(tx.ctx, t); err != nil {
		return &core.TransferFailedError{Transfer: t, Err: err}
	}

	tx.comps = append(tx.comps, func(ctx context.Context) error {
		return tx.s.assets.Transfer(ctx, t.Reverse())
	})

	return nil
}

func (tx *txn) receiveNative(from string, amount *uint256.Int) error {
	if err := tx.s.native.Receive(tx.ctx, from, amount); err != nil {
		return &core.TransferFailedError{
			Transfer: &core.Transfer{AssetID: core.NativeAssetID, From: from, To: tx.s.custody, Amount: amount},
			Err:      err,
		}
	}

	tx.comps = append(tx.comps, func(ctx context.Context) error {
		return tx.s.native.Send(ctx, from, amount)
	})

	return nil
}

func (tx *txn) sendNative(to string, amount *uint256.Int) error {
	if err := tx.s.native.Send(tx.ctx, to, amount); err != nil {
		return &core.TransferFailedError{
			Transfer: &core.Transfer{AssetID: core.NativeAssetID, From: tx.s.custody, To: to, Amount: amount},
			Err:      err,
		}
	}

	tx.comps = append(tx.comps, func(ctx context.Context) error {
		return tx.s.native.Receive(ctx, to, amount)
	})

	return nil
}

func (tx *txn) emit(action core.EventAction, userID, assetID string, amount *uint256.Int) *core.Event {
	event := &core.Event{
		TraceID: id.GenTraceID(),
		Action:  action,
		UserID:  userID,
		AssetID: assetID,
	}

	if amount != nil {
		event.Amount = amount.Dec()
	}

	tx.events = append(tx.events, event)
	return event
}

func (tx *txn) rollback() {
	log := logger.FromContext(tx.ctx)

	for i := len(tx.comps) - 1; i >= 0; i-- {
		if err := tx.comps[i](tx.ctx); err != nil {
			log.WithError(err).Errorln("compensate transfer")
		}
	}

	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
}

func (tx *txn) changeset() *core.Changeset {
	cs := &core.Changeset{
		Assets: tx.assets,
		Events: tx.events,
	}

	for _, k := range tx.dirty {
		cs.Balances = append(cs.Balances, &core.Balance{
			UserID:  k.userID,
			AssetID: k.assetID,
			Kind:    k.kind,
			Amount:  tx.s.state.get(k).Dec(),
		})
	}

	return cs
}

func (tx *txn) commit() error {
	cs := tx.changeset()
	if len(cs.Assets) == 0 && len(cs.Balances) == 0 && len(cs.Events) == 0 {
		return nil
	}

	if err := tx.s.store.Commit(tx.ctx, cs); err != nil {
		logger.FromContext(tx.ctx).WithError(err).Errorln("commit changeset")
		tx.rollback()
		return fmt.Errorf("%w: %v", core.ErrPersistFailed, err)
	}

	return nil
}

func arithmetic(err error) error {
	return fmt.Errorf("%w: %v", core.ErrArithmeticOverflow, err)
}
