package ledger

import (
	"context"
	"testing"

	"borrowlend/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCommit(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.Nil(t, s.Commit(ctx, &core.Changeset{
		Assets: []*core.Asset{
			{AssetID: "x", FeedID: "x-usd"},
			{AssetID: core.NativeAssetID, FeedID: "eth-usd"},
		},
		Balances: []*core.Balance{
			{UserID: "alice", AssetID: "x", Kind: core.BalanceKindBorrow, Amount: "10"},
		},
		Events: []*core.Event{
			{TraceID: "a", Action: core.EventActionSetAsset},
			{TraceID: "b", Action: core.EventActionBorrow},
		},
	}))

	require.Nil(t, s.Commit(ctx, &core.Changeset{
		Assets: []*core.Asset{
			{AssetID: "x", FeedID: "x-usd-v2"},
		},
		Balances: []*core.Balance{
			{UserID: "alice", AssetID: "x", Kind: core.BalanceKindBorrow, Amount: "4"},
			{UserID: "alice", AssetID: "x", Kind: core.BalanceKindDeposit, Amount: "1"},
		},
		Events: []*core.Event{
			{TraceID: "c", Action: core.EventActionRepay},
		},
	}))

	assets, err := s.Assets(ctx)
	require.Nil(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "x-usd-v2", assets[0].FeedID)
	assert.Equal(t, core.NativeAssetID, assets[1].AssetID)

	balances, err := s.Balances(ctx)
	require.Nil(t, err)
	require.Len(t, balances, 2)
	assert.Equal(t, "4", balances[0].Amount)

	events, err := s.ListEvents(ctx, 1, 10)
	require.Nil(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[0].TraceID)
	assert.Equal(t, int64(3), events[1].ID)

	events, err = s.ListEvents(ctx, 0, 1)
	require.Nil(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "a", events[0].TraceID)
}
