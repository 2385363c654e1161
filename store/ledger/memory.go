package ledger

import (
	"context"
	"sync"

	"borrowlend/core"
)

type memoryStore struct {
	mux      sync.Mutex
	assets   []*core.Asset
	balances []*core.Balance
	events   []*core.Event
}

// NewMemory ledger store kept in process memory, nothing survives a restart
func NewMemory() core.LedgerStore {
	return &memoryStore{}
}

func (s *memoryStore) Assets(ctx context.Context) ([]*core.Asset, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	assets := make([]*core.Asset, 0, len(s.assets))
	for _, asset := range s.assets {
		clone := *asset
		assets = append(assets, &clone)
	}

	return assets, nil
}

func (s *memoryStore) Balances(ctx context.Context) ([]*core.Balance, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	balances := make([]*core.Balance, 0, len(s.balances))
	for _, balance := range s.balances {
		clone := *balance
		balances = append(balances, &clone)
	}

	return balances, nil
}

func (s *memoryStore) Commit(ctx context.Context, cs *core.Changeset) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	for _, asset := range cs.Assets {
		s.saveAsset(asset)
	}

	for _, balance := range cs.Balances {
		s.saveBalance(balance)
	}

	for _, event := range cs.Events {
		clone := *event
		clone.ID = int64(len(s.events) + 1)
		event.ID = clone.ID
		s.events = append(s.events, &clone)
	}

	return nil
}

func (s *memoryStore) saveAsset(asset *core.Asset) {
	for _, a := range s.assets {
		if a.AssetID == asset.AssetID {
			a.FeedID = asset.FeedID
			return
		}
	}

	clone := *asset
	clone.ID = uint64(len(s.assets) + 1)
	s.assets = append(s.assets, &clone)
}

func (s *memoryStore) saveBalance(balance *core.Balance) {
	for _, b := range s.balances {
		if b.UserID == balance.UserID && b.AssetID == balance.AssetID && b.Kind == balance.Kind {
			b.Amount = balance.Amount
			return
		}
	}

	clone := *balance
	clone.ID = uint64(len(s.balances) + 1)
	s.balances = append(s.balances, &clone)
}

func (s *memoryStore) ListEvents(ctx context.Context, from int64, limit int) ([]*core.Event, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	events := make([]*core.Event, 0, limit)
	for _, event := range s.events {
		if event.ID <= from {
			continue
		}

		if len(events) == limit {
			break
		}

		clone := *event
		events = append(events, &clone)
	}

	return events, nil
}
