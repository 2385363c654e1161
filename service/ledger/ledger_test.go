package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"borrowlend/core"
	"borrowlend/pkg/lending"
	"borrowlend/pkg/number"
	"borrowlend/service/bank"
	"borrowlend/service/oracle"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	custody = "custody"
	alice   = "alice"
	bob     = "bob"

	tokenX = "x"
	tokenY = "y"

	nativeFeed = "eth-usd"
	feedX      = "x-usd"
	feedY      = "y-usd"
)

func units(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), lending.Precision)
}

func dec(t *testing.T, s string) *uint256.Int {
	v, err := uint256.FromDecimal(s)
	require.Nil(t, err)
	return v
}

type memStore struct {
	mux      sync.Mutex
	fail     bool
	assets   []*core.Asset
	balances map[balanceKey]*core.Balance
	events   []*core.Event
}

func newMemStore() *memStore {
	return &memStore{balances: map[balanceKey]*core.Balance{}}
}

func (m *memStore) Assets(ctx context.Context) ([]*core.Asset, error) {
	m.mux.Lock()
	defer m.mux.Unlock()

	assets := make([]*core.Asset, 0, len(m.assets))
	for _, asset := range m.assets {
		clone := *asset
		assets = append(assets, &clone)
	}

	return assets, nil
}

func (m *memStore) Balances(ctx context.Context) ([]*core.Balance, error) {
	m.mux.Lock()
	defer m.mux.Unlock()

	var balances []*core.Balance
	for _, b := range m.balances {
		clone := *b
		balances = append(balances, &clone)
	}

	return balances, nil
}

func (m *memStore) Commit(ctx context.Context, cs *core.Changeset) error {
	m.mux.Lock()
	defer m.mux.Unlock()

	if m.fail {
		return errors.New("database is down")
	}

	for _, asset := range cs.Assets {
		saved := false
		for _, a := range m.assets {
			if a.AssetID == asset.AssetID {
				a.FeedID = asset.FeedID
				saved = true
			}
		}

		if !saved {
			clone := *asset
			m.assets = append(m.assets, &clone)
		}
	}

	for _, b := range cs.Balances {
		clone := *b
		m.balances[balanceKey{userID: b.UserID, assetID: b.AssetID, kind: b.Kind}] = &clone
	}

	for _, event := range cs.Events {
		clone := *event
		clone.ID = int64(len(m.events) + 1)
		m.events = append(m.events, &clone)
	}

	return nil
}

func (m *memStore) ListEvents(ctx context.Context, from int64, limit int) ([]*core.Event, error) {
	m.mux.Lock()
	defer m.mux.Unlock()

	var events []*core.Event
	for _, event := range m.events {
		if event.ID > from && len(events) < limit {
			events = append(events, event)
		}
	}

	return events, nil
}

func (m *memStore) actions() []core.EventAction {
	m.mux.Lock()
	defer m.mux.Unlock()

	actions := make([]core.EventAction, 0, len(m.events))
	for _, event := range m.events {
		actions = append(actions, event.Action)
	}

	return actions
}

// blockingAssets rejects transfers towards blocked, of assetID only when set
type blockingAssets struct {
	*bank.Bank
	blocked string
	assetID string
}

func (b *blockingAssets) Transfer(ctx context.Context, transfer *core.Transfer) error {
	if transfer.To == b.blocked && (b.assetID == "" || transfer.AssetID == b.assetID) {
		return errors.New("receiver rejected transfer")
	}

	return b.Bank.Transfer(ctx, transfer)
}

// hookAssets runs hook before every transfer with the context it was given
type hookAssets struct {
	*bank.Bank
	hook func(ctx context.Context)
}

func (h *hookAssets) Transfer(ctx context.Context, transfer *core.Transfer) error {
	if h.hook != nil {
		h.hook(ctx)
	}

	return h.Bank.Transfer(ctx, transfer)
}

// hookOracle runs hook once before serving the next price
type hookOracle struct {
	*oracle.Fixed
	hook func(ctx context.Context)
}

func (o *hookOracle) LatestPrice(ctx context.Context, feedID string) (*core.Price, error) {
	if hook := o.hook; hook != nil {
		o.hook = nil
		hook(ctx)
	}

	return o.Fixed.LatestPrice(ctx, feedID)
}

type fixture struct {
	ctx    context.Context
	svc    *Service
	bank   *bank.Bank
	oracle *hookOracle
	store  *memStore
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWith(t, nil)
}

// newFixtureWith wrap the bank with assets when not nil
func newFixtureWith(t *testing.T, assets func(b *bank.Bank) core.AssetService) *fixture {
	ctx := context.Background()

	b := bank.New(custody)
	o := &hookOracle{Fixed: oracle.NewFixed()}
	o.SetPrice(nativeFeed, units(2000))
	o.SetPrice(feedX, units(25))
	o.SetPrice(feedY, units(1))

	var collaborator core.AssetService = b
	if assets != nil {
		collaborator = assets(b)
	}

	st := newMemStore()
	svc := New(Config{CustodyID: custody}, st, o, collaborator, b)
	require.Nil(t, svc.SetNativeFeed(ctx, nativeFeed))
	require.Nil(t, svc.SetAsset(ctx, tokenX, feedX))
	require.Nil(t, svc.SetAsset(ctx, tokenY, feedY))

	require.Nil(t, b.Mint(ctx, tokenX, custody, units(10000)))
	require.Nil(t, b.Mint(ctx, core.NativeAssetID, alice, units(100)))
	require.Nil(t, b.Mint(ctx, tokenY, alice, units(10000)))
	require.Nil(t, b.Mint(ctx, tokenX, bob, units(1000)))

	return &fixture{
		ctx:    ctx,
		svc:    svc,
		bank:   b,
		oracle: o,
		store:  st,
	}
}

func (f *fixture) balanceOf(t *testing.T, assetID, userID string) *uint256.Int {
	v, err := f.bank.BalanceOf(f.ctx, assetID, userID)
	require.Nil(t, err)
	return v
}

func (f *fixture) open(t *testing.T, native uint64, borrow uint64) {
	require.Nil(t, f.svc.DepositNative(f.ctx, alice, units(native)))
	require.Nil(t, f.svc.Borrow(f.ctx, alice, tokenX, units(borrow)))
}

func TestDepositBorrowHealth(t *testing.T) {
	f := newFixture(t)

	hf, err := f.svc.HealthFactor(f.ctx, alice)
	require.Nil(t, err)
	assert.Equal(t, lending.MaxHealthFactor.Dec(), hf.Dec())

	f.open(t, 10, 400)

	info, err := f.svc.UserInformation(f.ctx, alice)
	require.Nil(t, err)
	assert.Equal(t, units(20000).Dec(), info.DepositUsd.Dec())
	assert.Equal(t, units(10000).Dec(), info.BorrowUsd.Dec())

	hf, err = f.svc.HealthFactor(f.ctx, alice)
	require.Nil(t, err)
	assert.Equal(t, "140000000", hf.Dec())

	assert.Equal(t, units(400).Dec(), f.balanceOf(t, tokenX, alice).Dec())
	assert.Equal(t, units(9600).Dec(), f.balanceOf(t, tokenX, custody).Dec())

	total, err := f.svc.TotalLedgerBalance(f.ctx)
	require.Nil(t, err)
	assert.Equal(t, units(10).Dec(), total.Dec())

	assert.Equal(t, []string{alice}, f.svc.Accounts(f.ctx))
	balances := f.svc.Balances(f.ctx, alice)
	assert.Equal(t, units(10).Dec(), balances.Native.Dec())
	assert.Equal(t, units(400).Dec(), balances.Borrows[tokenX].Dec())
	assert.Empty(t, balances.Deposits)
}

func TestZeroAmount(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.svc.DepositNative(f.ctx, alice, uint256.NewInt(0)), core.ErrZeroAmount)
	assert.ErrorIs(t, f.svc.DepositAsset(f.ctx, alice, tokenY, uint256.NewInt(0)), core.ErrZeroAmount)
	assert.ErrorIs(t, f.svc.Repay(f.ctx, alice, alice, tokenX, nil), core.ErrZeroAmount)
	assert.ErrorIs(t, f.svc.Withdraw(f.ctx, alice, tokenY, uint256.NewInt(0)), core.ErrZeroAmount)
	assert.ErrorIs(t, f.svc.WithdrawNative(f.ctx, alice, uint256.NewInt(0)), core.ErrZeroAmount)
}

func TestTokenNotAllowed(t *testing.T) {
	f := newFixture(t)

	var notAllowed *core.TokenNotAllowedError
	err := f.svc.DepositAsset(f.ctx, alice, "z", uint256.NewInt(0))
	require.ErrorAs(t, err, &notAllowed)
	assert.Equal(t, "z", notAllowed.AssetID)

	assert.ErrorIs(t, f.svc.Borrow(f.ctx, alice, "z", units(1)), core.ErrTokenNotAllowed)
	assert.ErrorIs(t, f.svc.Withdraw(f.ctx, alice, core.NativeAssetID, units(1)), core.ErrTokenNotAllowed)

	_, err = f.svc.UsdValue(f.ctx, "z", units(1))
	assert.ErrorIs(t, err, core.ErrTokenNotAllowed)
}

func TestBorrowOverLeveraged(t *testing.T) {
	f := newFixture(t)
	require.Nil(t, f.svc.DepositNative(f.ctx, alice, units(10)))

	err := f.svc.Borrow(f.ctx, alice, tokenX, units(600))
	var overLeveraged *core.OverLeveragedError
	require.ErrorAs(t, err, &overLeveraged)
	assert.Equal(t, "100000000", overLeveraged.MinRequired.Dec())
	assert.Equal(t, "93333333", overLeveraged.Actual.Dec())

	assert.Empty(t, f.svc.Balances(f.ctx, alice).Borrows)
	assert.True(t, f.balanceOf(t, tokenX, alice).IsZero())
	assert.Equal(t, units(10000).Dec(), f.balanceOf(t, tokenX, custody).Dec())
	assert.Equal(t, []core.EventAction{
		core.EventActionSetNativeFeed,
		core.EventActionSetAsset,
		core.EventActionSetAsset,
		core.EventActionDepositNative,
	}, f.store.actions())
}

func TestBorrowUnderFunded(t *testing.T) {
	f := newFixture(t)
	require.Nil(t, f.svc.DepositNative(f.ctx, alice, units(100)))

	err := f.svc.Borrow(f.ctx, alice, tokenX, units(10001))
	var underFunded *core.ContractUnderFundedError
	require.ErrorAs(t, err, &underFunded)
	assert.Equal(t, units(10000).Dec(), underFunded.Available.Dec())
	assert.Equal(t, units(10001).Dec(), underFunded.Required.Dec())
}

func TestBorrowTransferFailed(t *testing.T) {
	ctx := context.Background()
	b := bank.New(custody)
	o := oracle.NewFixed()
	o.SetPrice(nativeFeed, units(2000))
	o.SetPrice(feedX, units(25))

	svc := New(Config{CustodyID: custody}, newMemStore(), o, &blockingAssets{Bank: b, blocked: alice}, b)
	require.Nil(t, svc.SetNativeFeed(ctx, nativeFeed))
	require.Nil(t, svc.SetAsset(ctx, tokenX, feedX))
	require.Nil(t, b.Mint(ctx, tokenX, custody, units(1000)))
	require.Nil(t, b.Mint(ctx, core.NativeAssetID, alice, units(10)))
	require.Nil(t, svc.DepositNative(ctx, alice, units(10)))

	err := svc.Borrow(ctx, alice, tokenX, units(100))
	var failed *core.TransferFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, alice, failed.Transfer.To)
	assert.Equal(t, core.ErrTransferFailed, core.CodeOf(err))

	assert.Empty(t, svc.Balances(ctx, alice).Borrows)
	available, _ := b.BalanceOf(ctx, tokenX, custody)
	assert.Equal(t, units(1000).Dec(), available.Dec())
}

func TestRepay(t *testing.T) {
	f := newFixture(t)
	f.open(t, 10, 400)

	err := f.svc.Repay(f.ctx, alice, alice, tokenX, units(401))
	var overpayment *core.OverpaymentError
	require.ErrorAs(t, err, &overpayment)
	assert.Equal(t, units(400).Dec(), overpayment.Available.Dec())

	require.Nil(t, f.svc.Repay(f.ctx, alice, alice, tokenX, units(100)))
	require.Nil(t, f.svc.Repay(f.ctx, bob, alice, tokenX, units(300)))

	assert.Empty(t, f.svc.Balances(f.ctx, alice).Borrows)
	assert.Equal(t, units(300).Dec(), f.balanceOf(t, tokenX, alice).Dec())
	assert.Equal(t, units(700).Dec(), f.balanceOf(t, tokenX, bob).Dec())
	assert.Equal(t, units(10000).Dec(), f.balanceOf(t, tokenX, custody).Dec())

	hf, err := f.svc.HealthFactor(f.ctx, alice)
	require.Nil(t, err)
	assert.Equal(t, lending.MaxHealthFactor.Dec(), hf.Dec())
}

func TestRepayTransferFailed(t *testing.T) {
	f := newFixture(t)
	f.open(t, 10, 400)

	// carol holds no tokens, the pull fails and the debt stays
	err := f.svc.Repay(f.ctx, "carol", alice, tokenX, units(100))
	assert.ErrorIs(t, err, core.ErrTransferFailed)
	assert.Equal(t, units(400).Dec(), f.svc.Balances(f.ctx, alice).Borrows[tokenX].Dec())
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	require.Nil(t, f.svc.DepositAsset(f.ctx, alice, tokenY, units(5000)))
	require.Nil(t, f.svc.Borrow(f.ctx, alice, tokenX, units(100)))

	err := f.svc.Withdraw(f.ctx, alice, tokenY, units(5001))
	var insufficient *core.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, units(5000).Dec(), insufficient.Available.Dec())

	// 1500 y left covers 1050 usd against 2500 usd of debt
	err = f.svc.Withdraw(f.ctx, alice, tokenY, units(3500))
	assert.ErrorIs(t, err, core.ErrOverLeveraged)
	assert.Equal(t, units(5000).Dec(), f.svc.Balances(f.ctx, alice).Deposits[tokenY].Dec())
	assert.Equal(t, units(5000).Dec(), f.balanceOf(t, tokenY, alice).Dec())

	require.Nil(t, f.svc.Withdraw(f.ctx, alice, tokenY, units(1000)))
	assert.Equal(t, units(4000).Dec(), f.svc.Balances(f.ctx, alice).Deposits[tokenY].Dec())
	assert.Equal(t, units(6000).Dec(), f.balanceOf(t, tokenY, alice).Dec())
}

func TestWithdrawNative(t *testing.T) {
	f := newFixture(t)
	f.open(t, 10, 400)

	assert.ErrorIs(t, f.svc.WithdrawNative(f.ctx, alice, units(11)), core.ErrInsufficientBalance)
	assert.ErrorIs(t, f.svc.WithdrawNative(f.ctx, alice, units(5)), core.ErrOverLeveraged)
	assert.Equal(t, units(90).Dec(), f.balanceOf(t, core.NativeAssetID, alice).Dec())

	require.Nil(t, f.svc.WithdrawNative(f.ctx, alice, units(2)))
	assert.Equal(t, units(92).Dec(), f.balanceOf(t, core.NativeAssetID, alice).Dec())
	assert.Equal(t, units(8).Dec(), f.svc.Balances(f.ctx, alice).Native.Dec())
}

func TestNotLiquidatable(t *testing.T) {
	f := newFixture(t)
	f.open(t, 10, 400)

	_, err := f.svc.LiquidateForNative(f.ctx, bob, alice, tokenX)
	var healthy *core.NotLiquidatableError
	require.ErrorAs(t, err, &healthy)
	assert.Equal(t, "140000000", healthy.Current.Dec())
}

func TestLiquidateForNative(t *testing.T) {
	f := newFixture(t)
	f.open(t, 30, 400)
	f.oracle.SetPrice(nativeFeed, units(200))

	hf, err := f.svc.HealthFactor(f.ctx, alice)
	require.Nil(t, err)
	assert.Equal(t, "42000000", hf.Dec())

	l, err := f.svc.LiquidateForNative(f.ctx, bob, alice, tokenX)
	require.Nil(t, err)
	assert.Equal(t, units(200).Dec(), l.HalfDebt.Dec())
	assert.Equal(t, units(5000).Dec(), l.HalfDebtUsd.Dec())
	assert.Equal(t, units(250).Dec(), l.RewardUsd.Dec())
	assert.Equal(t, dec(t, "26250000000000000000").Dec(), l.Payout.Dec())
	assert.Equal(t, bob, l.Liquidator)

	balances := f.svc.Balances(f.ctx, alice)
	assert.Equal(t, dec(t, "3750000000000000000").Dec(), balances.Native.Dec())
	assert.Equal(t, units(200).Dec(), balances.Borrows[tokenX].Dec())

	assert.Equal(t, dec(t, "26250000000000000000").Dec(), f.balanceOf(t, core.NativeAssetID, bob).Dec())
	assert.Equal(t, units(800).Dec(), f.balanceOf(t, tokenX, bob).Dec())

	actions := f.store.actions()
	assert.Equal(t, core.EventActionLiquidateNative, actions[len(actions)-1])
}

func TestLiquidateForNativeUnderflow(t *testing.T) {
	f := newFixture(t)
	f.open(t, 10, 400)
	f.oracle.SetPrice(nativeFeed, units(200))

	// the 26.25 payout exceeds the 10 native deposit
	_, err := f.svc.LiquidateForNative(f.ctx, bob, alice, tokenX)
	var insufficient *core.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, units(10).Dec(), insufficient.Available.Dec())

	balances := f.svc.Balances(f.ctx, alice)
	assert.Equal(t, units(10).Dec(), balances.Native.Dec())
	assert.Equal(t, units(400).Dec(), balances.Borrows[tokenX].Dec())
	assert.Equal(t, units(1000).Dec(), f.balanceOf(t, tokenX, bob).Dec())
}

func TestLiquidateAsset(t *testing.T) {
	f := newFixture(t)
	require.Nil(t, f.svc.DepositAsset(f.ctx, alice, tokenY, units(6000)))
	f.open(t, 10, 400)
	f.oracle.SetPrice(nativeFeed, units(200))

	hf, err := f.svc.HealthFactor(f.ctx, alice)
	require.Nil(t, err)
	assert.Equal(t, "56000000", hf.Dec())

	_, err = f.svc.Liquidate(f.ctx, bob, alice, tokenY, tokenY)
	assert.ErrorIs(t, err, core.ErrIncorrectRepaymentToken)

	l, err := f.svc.Liquidate(f.ctx, bob, alice, tokenX, tokenY)
	require.Nil(t, err)
	assert.Equal(t, units(5250).Dec(), l.Payout.Dec())

	balances := f.svc.Balances(f.ctx, alice)
	assert.Equal(t, units(750).Dec(), balances.Deposits[tokenY].Dec())
	assert.Equal(t, units(10).Dec(), balances.Native.Dec())
	assert.Equal(t, units(200).Dec(), balances.Borrows[tokenX].Dec())
	assert.Equal(t, units(5250).Dec(), f.balanceOf(t, tokenY, bob).Dec())
}

func TestPersistFailed(t *testing.T) {
	f := newFixture(t)
	f.store.fail = true

	err := f.svc.DepositNative(f.ctx, alice, units(10))
	assert.ErrorIs(t, err, core.ErrPersistFailed)
	assert.Equal(t, core.ErrPersistFailed, core.CodeOf(err))

	assert.True(t, f.svc.Balances(f.ctx, alice).Native.IsZero())
	assert.Equal(t, units(100).Dec(), f.balanceOf(t, core.NativeAssetID, alice).Dec())
	assert.Empty(t, f.svc.Accounts(f.ctx))
}

func TestReentrantCall(t *testing.T) {
	f := newFixture(t)
	require.Nil(t, f.svc.DepositNative(f.ctx, alice, units(10)))

	var (
		reentrantErr error
		readErr      error
		hf           *uint256.Int
	)

	f.oracle.hook = func(ctx context.Context) {
		reentrantErr = f.svc.DepositNative(ctx, alice, units(1))
		hf, readErr = f.svc.HealthFactor(ctx, alice)
	}

	require.Nil(t, f.svc.Borrow(f.ctx, alice, tokenX, units(400)))
	assert.ErrorIs(t, reentrantErr, core.ErrReentrantCall)
	require.Nil(t, readErr)
	assert.Equal(t, "140000000", hf.Dec())
	assert.Equal(t, units(10).Dec(), f.svc.Balances(f.ctx, alice).Native.Dec())
}

func TestSetAsset(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.svc.SetAsset(f.ctx, tokenX, ""), core.ErrInvalidFeed)
	assert.ErrorIs(t, f.svc.SetAsset(f.ctx, "", feedX), core.ErrInvalidArgument)
	assert.ErrorIs(t, f.svc.SetAsset(f.ctx, core.NativeAssetID, feedX), core.ErrInvalidArgument)
	assert.ErrorIs(t, f.svc.SetNativeFeed(f.ctx, ""), core.ErrInvalidFeed)

	events := len(f.store.actions())
	require.Nil(t, f.svc.SetAsset(f.ctx, tokenX, feedX))
	assert.Len(t, f.store.actions(), events)

	require.Nil(t, f.svc.SetAsset(f.ctx, tokenX, "x-usd-v2"))
	assets, err := f.svc.Assets(f.ctx)
	require.Nil(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, tokenX, assets[0].AssetID)
	assert.Equal(t, "x-usd-v2", assets[0].FeedID)
	assert.Equal(t, tokenY, assets[1].AssetID)
	assert.Equal(t, nativeFeed, f.svc.NativeFeed(f.ctx))
}

func TestSetAssetPersistFailed(t *testing.T) {
	f := newFixture(t)
	f.store.fail = true

	assert.ErrorIs(t, f.svc.SetAsset(f.ctx, "z", "z-usd"), core.ErrPersistFailed)
	assert.ErrorIs(t, f.svc.SetAsset(f.ctx, tokenX, "x-usd-v2"), core.ErrPersistFailed)

	assets, _ := f.svc.Assets(f.ctx)
	require.Len(t, assets, 2)
	assert.Equal(t, feedX, assets[0].FeedID)
}

func TestLoad(t *testing.T) {
	f := newFixture(t)
	require.Nil(t, f.svc.DepositAsset(f.ctx, alice, tokenY, units(500)))
	f.open(t, 10, 400)

	svc := New(Config{CustodyID: custody}, f.store, f.oracle, f.bank, f.bank)
	require.Nil(t, svc.Load(f.ctx))

	assert.Equal(t, nativeFeed, svc.NativeFeed(f.ctx))
	assets, _ := svc.Assets(f.ctx)
	require.Len(t, assets, 2)
	assert.Equal(t, tokenX, assets[0].AssetID)

	assert.Equal(t, f.svc.Balances(f.ctx, alice), svc.Balances(f.ctx, alice))

	want, _ := f.svc.HealthFactor(f.ctx, alice)
	got, err := svc.HealthFactor(f.ctx, alice)
	require.Nil(t, err)
	assert.Equal(t, want.Dec(), got.Dec())
}

func TestAmountFromUsd(t *testing.T) {
	f := newFixture(t)

	amount, err := f.svc.AmountFromUsd(f.ctx, tokenX, units(100))
	require.Nil(t, err)
	assert.Equal(t, units(4).Dec(), amount.Dec())

	usd, err := f.svc.UsdValue(f.ctx, core.NativeAssetID, units(3))
	require.Nil(t, err)
	assert.Equal(t, units(6000).Dec(), usd.Dec())
}

func TestDepositAssetTransferFailed(t *testing.T) {
	f := newFixture(t)
	events := len(f.store.actions())

	// carol holds no y, the pull into custody fails
	err := f.svc.DepositAsset(f.ctx, "carol", tokenY, units(10))
	var failed *core.TransferFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "carol", failed.Transfer.From)
	assert.Equal(t, custody, failed.Transfer.To)

	assert.Empty(t, f.svc.Balances(f.ctx, "carol").Deposits)
	assert.Empty(t, f.svc.Accounts(f.ctx))
	assert.True(t, f.balanceOf(t, tokenY, custody).IsZero())
	assert.Len(t, f.store.actions(), events)
}

func TestNoRewardForLiquidation(t *testing.T) {
	f := newFixture(t)
	f.open(t, 10, 400)
	f.oracle.SetPrice(nativeFeed, units(200))

	// 5250 usd of payout buys less than one base unit of y
	f.oracle.SetPrice(feedY, new(uint256.Int).Mul(units(1), number.Exp10(22)))

	_, err := f.svc.Liquidate(f.ctx, bob, alice, tokenX, tokenY)
	var noReward *core.NoRewardForLiquidationError
	require.ErrorAs(t, err, &noReward)
	assert.Equal(t, units(250).Dec(), noReward.RewardUsd.Dec())
	assert.Equal(t, units(5000).Dec(), noReward.HalfDebtUsd.Dec())

	balances := f.svc.Balances(f.ctx, alice)
	assert.Equal(t, units(400).Dec(), balances.Borrows[tokenX].Dec())
	assert.Equal(t, units(10).Dec(), balances.Native.Dec())
	assert.Equal(t, units(1000).Dec(), f.balanceOf(t, tokenX, bob).Dec())
}

func TestLiquidatePayoutTransferFailed(t *testing.T) {
	f := newFixtureWith(t, func(b *bank.Bank) core.AssetService {
		return &blockingAssets{Bank: b, blocked: bob, assetID: tokenY}
	})
	require.Nil(t, f.svc.DepositAsset(f.ctx, alice, tokenY, units(6000)))
	f.open(t, 10, 400)
	f.oracle.SetPrice(nativeFeed, units(200))
	events := len(f.store.actions())

	// the repay pull from bob succeeds, the y payout to bob is rejected
	_, err := f.svc.Liquidate(f.ctx, bob, alice, tokenX, tokenY)
	var failed *core.TransferFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, tokenY, failed.Transfer.AssetID)
	assert.Equal(t, bob, failed.Transfer.To)

	balances := f.svc.Balances(f.ctx, alice)
	assert.Equal(t, units(400).Dec(), balances.Borrows[tokenX].Dec())
	assert.Equal(t, units(6000).Dec(), balances.Deposits[tokenY].Dec())
	assert.Equal(t, units(1000).Dec(), f.balanceOf(t, tokenX, bob).Dec())
	assert.Equal(t, units(9600).Dec(), f.balanceOf(t, tokenX, custody).Dec())
	assert.Equal(t, units(6000).Dec(), f.balanceOf(t, tokenY, custody).Dec())
	assert.Len(t, f.store.actions(), events)
}

func TestTransferCallbackReads(t *testing.T) {
	var (
		svc     *Service
		calls   int
		readErr error
		mutErr  error
	)

	f := newFixtureWith(t, func(b *bank.Bank) core.AssetService {
		return &hookAssets{Bank: b, hook: func(ctx context.Context) {
			if svc == nil {
				return
			}

			calls++
			_, readErr = svc.HealthFactor(ctx, alice)
			mutErr = svc.Repay(ctx, alice, alice, tokenX, units(1))
		}}
	})
	require.Nil(t, f.svc.DepositNative(f.ctx, alice, units(10)))
	svc = f.svc

	require.Nil(t, f.svc.Borrow(f.ctx, alice, tokenX, units(400)))
	assert.Equal(t, 1, calls)
	assert.Nil(t, readErr)
	assert.ErrorIs(t, mutErr, core.ErrReentrantCall)
	assert.Equal(t, units(400).Dec(), f.svc.Balances(f.ctx, alice).Borrows[tokenX].Dec())
}

func TestConcurrentOperations(t *testing.T) {
	f := newFixture(t)

	const accounts = 10
	users := make([]string, accounts)
	for i := range users {
		users[i] = fmt.Sprintf("user-%d", i)
		require.Nil(t, f.bank.Mint(f.ctx, core.NativeAssetID, users[i], units(10)))
	}

	var wg sync.WaitGroup
	errs := make(chan error, accounts*16)

	for _, userID := range users {
		userID := userID

		wg.Add(2)
		go func() {
			defer wg.Done()

			if err := f.svc.DepositNative(f.ctx, userID, units(10)); err != nil {
				errs <- err
				return
			}

			for i := 0; i < 4; i++ {
				if err := f.svc.Borrow(f.ctx, userID, tokenX, units(100)); err != nil {
					errs <- err
				}
			}

			if err := f.svc.Repay(f.ctx, userID, userID, tokenX, units(50)); err != nil {
				errs <- err
			}
		}()

		go func() {
			defer wg.Done()

			for i := 0; i < 5; i++ {
				if _, err := f.svc.HealthFactor(f.ctx, userID); err != nil {
					errs <- err
				}
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		assert.Nil(t, err)
	}

	borrowed := number.Zero()
	native := number.Zero()
	for _, userID := range users {
		balances := f.svc.Balances(f.ctx, userID)
		assert.Equal(t, units(350).Dec(), balances.Borrows[tokenX].Dec())
		assert.Equal(t, units(350).Dec(), f.balanceOf(t, tokenX, userID).Dec())

		borrowed.Add(borrowed, balances.Borrows[tokenX])
		native.Add(native, balances.Native)

		hf, err := f.svc.HealthFactor(f.ctx, userID)
		require.Nil(t, err)
		assert.True(t, lending.Healthy(hf))
	}

	custodyX := f.balanceOf(t, tokenX, custody)
	assert.Equal(t, units(10000).Dec(), new(uint256.Int).Add(custodyX, borrowed).Dec())

	total, err := f.svc.TotalLedgerBalance(f.ctx)
	require.Nil(t, err)
	assert.Equal(t, native.Dec(), total.Dec())
	assert.Len(t, f.svc.Accounts(f.ctx), accounts)
}
