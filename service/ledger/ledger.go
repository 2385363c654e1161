package ledger

import (
	"context"
	"sync"

	"borrowlend/core"
	"borrowlend/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
	"github.com/yiplee/structs"
)

// Config ledger service config
type Config struct {
	// CustodyID account holding pooled assets
	CustodyID string `valid:"required"`
}

// Service ledger service, every public call is serialized by one lock
type Service struct {
	mux      sync.RWMutex
	custody  string
	store    core.LedgerStore
	oracle   core.IPriceOracleService
	assets   core.AssetService
	native   core.NativeService
	registry *registry
	state    *state
}

// New new ledger service
func New(
	cfg Config,
	store core.LedgerStore,
	oracle core.IPriceOracleService,
	assets core.AssetService,
	native core.NativeService,
) *Service {
	return &Service{
		custody:  cfg.CustodyID,
		store:    store,
		oracle:   oracle,
		assets:   assets,
		native:   native,
		registry: &registry{},
		state:    newState(),
	}
}

type runningKey struct{}

// running reports whether ctx comes from an operation of s already holding the lock
func (s *Service) running(ctx context.Context) bool {
	v, _ := ctx.Value(runningKey{}).(*Service)
	return v == s
}

// update run fn as one atomic operation, a failure restores state and compensates transfers.
// Collaborators see tx.ctx; only calls carrying it are recognized as reentrant.
func (s *Service) update(ctx context.Context, fn func(tx *txn) error) error {
	if s.running(ctx) {
		return core.ErrReentrantCall
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	tx := s.begin(context.WithValue(ctx, runningKey{}, s))
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}

	if err := tx.commit(); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	for _, event := range tx.events {
		log.WithFields(logrus.Fields(structs.Map(event))).Infoln("ledger event")
	}

	return nil
}

// view run a read, reads issued by collaborators during an operation skip the lock
func (s *Service) view(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.running(ctx) {
		s.mux.RLock()
		defer s.mux.RUnlock()
		ctx = context.WithValue(ctx, runningKey{}, s)
	}

	return fn(ctx)
}

// Load restore registry and balances from the store
func (s *Service) Load(ctx context.Context) error {
	assets, err := s.store.Assets(ctx)
	if err != nil {
		return err
	}

	balances, err := s.store.Balances(ctx)
	if err != nil {
		return err
	}

	st := newState()
	if err := st.load(balances); err != nil {
		return err
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	s.registry.load(assets)
	s.state = st

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"assets":   len(s.registry.assets),
		"balances": len(balances),
	}).Infoln("ledger loaded")

	return nil
}

func (s *Service) checkAsset(assetID string) error {
	if !s.registry.allowed(assetID) {
		return &core.TokenNotAllowedError{AssetID: assetID}
	}

	return nil
}

func (s *Service) DepositNative(ctx context.Context, userID string, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return core.ErrZeroAmount
	}

	return s.update(ctx, func(tx *txn) error {
		if err := tx.receiveNative(userID, amount); err != nil {
			return err
		}

		if err := tx.credit(depositKey(userID, core.NativeAssetID), amount); err != nil {
			return err
		}

		tx.emit(core.EventActionDepositNative, userID, core.NativeAssetID, amount)
		return nil
	})
}

func (s *Service) DepositAsset(ctx context.Context, userID, assetID string, amount *uint256.Int) error {
	return s.update(ctx, func(tx *txn) error {
		if err := s.checkAsset(assetID); err != nil {
			return err
		}

		if amount == nil || amount.IsZero() {
			return core.ErrZeroAmount
		}

		if err := tx.transfer(&core.Transfer{
			AssetID: assetID,
			From:    userID,
			To:      s.custody,
			Amount:  amount,
		}); err != nil {
			return err
		}

		if err := tx.credit(depositKey(userID, assetID), amount); err != nil {
			return err
		}

		tx.emit(core.EventActionDeposit, userID, assetID, amount)
		return nil
	})
}

func (s *Service) Borrow(ctx context.Context, userID, assetID string, amount *uint256.Int) error {
	return s.update(ctx, func(tx *txn) error {
		if err := s.checkAsset(assetID); err != nil {
			return err
		}

		if amount == nil || amount.IsZero() {
			return core.ErrZeroAmount
		}

		available, err := s.assets.BalanceOf(tx.ctx, assetID, s.custody)
		if err != nil {
			return err
		}

		if available.Lt(amount) {
			return &core.ContractUnderFundedError{Available: available, Required: amount}
		}

		if err := tx.credit(borrowKey(userID, assetID), amount); err != nil {
			return err
		}

		if err := tx.transfer(&core.Transfer{
			AssetID: assetID,
			From:    s.custody,
			To:      userID,
			Amount:  amount,
		}); err != nil {
			return err
		}

		if err := s.ensureHealthy(tx.ctx, userID); err != nil {
			return err
		}

		tx.emit(core.EventActionBorrow, userID, assetID, amount)
		return nil
	})
}

func (s *Service) Repay(ctx context.Context, payer, userID, assetID string, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return core.ErrZeroAmount
	}

	return s.update(ctx, func(tx *txn) error {
		if err := s.repay(tx, payer, userID, assetID, amount); err != nil {
			return err
		}

		event := tx.emit(core.EventActionRepay, userID, assetID, amount)
		if payer != userID {
			event.SetExtraData(map[string]string{"payer": payer})
		}

		return nil
	})
}

// repay pull amount from payer into custody then reduce the debt of userID
func (s *Service) repay(tx *txn, payer, userID, assetID string, amount *uint256.Int) error {
	k := borrowKey(userID, assetID)
	if borrowed := s.state.get(k); borrowed.Lt(amount) {
		return &core.OverpaymentError{Available: number.Clone(borrowed), Requested: amount}
	}

	if err := tx.transfer(&core.Transfer{
		AssetID: assetID,
		From:    payer,
		To:      s.custody,
		Amount:  amount,
	}); err != nil {
		return err
	}

	return tx.debit(k, amount)
}

func (s *Service) Withdraw(ctx context.Context, userID, assetID string, amount *uint256.Int) error {
	if assetID == core.NativeAssetID {
		return &core.TokenNotAllowedError{AssetID: assetID}
	}

	if amount == nil || amount.IsZero() {
		return core.ErrZeroAmount
	}

	return s.update(ctx, func(tx *txn) error {
		if err := s.withdraw(tx, userID, assetID, userID, amount); err != nil {
			return err
		}

		if err := s.ensureHealthy(tx.ctx, userID); err != nil {
			return err
		}

		tx.emit(core.EventActionWithdraw, userID, assetID, amount)
		return nil
	})
}

func (s *Service) WithdrawNative(ctx context.Context, userID string, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return core.ErrZeroAmount
	}

	return s.update(ctx, func(tx *txn) error {
		if err := s.withdraw(tx, userID, core.NativeAssetID, userID, amount); err != nil {
			return err
		}

		if err := s.ensureHealthy(tx.ctx, userID); err != nil {
			return err
		}

		tx.emit(core.EventActionWithdrawNative, userID, core.NativeAssetID, amount)
		return nil
	})
}

// withdraw reduce the deposit of userID then pay amount out of custody to receiver
func (s *Service) withdraw(tx *txn, userID, assetID, receiver string, amount *uint256.Int) error {
	k := depositKey(userID, assetID)
	if deposited := s.state.get(k); deposited.Lt(amount) {
		return &core.InsufficientBalanceError{Available: number.Clone(deposited), Required: amount}
	}

	if err := tx.debit(k, amount); err != nil {
		return err
	}

	if assetID == core.NativeAssetID {
		return tx.sendNative(receiver, amount)
	}

	return tx.transfer(&core.Transfer{
		AssetID: assetID,
		From:    s.custody,
		To:      receiver,
		Amount:  amount,
	})
}

func (s *Service) SetAsset(ctx context.Context, assetID, feedID string) error {
	if assetID == "" || assetID == core.NativeAssetID {
		return core.ErrInvalidArgument
	}

	if feedID == "" {
		return core.ErrInvalidFeed
	}

	return s.update(ctx, func(tx *txn) error {
		if asset := s.registry.find(assetID); asset != nil {
			if asset.FeedID == feedID {
				return nil
			}

			tx.bind(asset, feedID)
		} else {
			tx.register(&core.Asset{AssetID: assetID, FeedID: feedID})
		}

		event := tx.emit(core.EventActionSetAsset, "", assetID, nil)
		event.SetExtraData(map[string]string{"feed_id": feedID})
		return nil
	})
}

func (s *Service) SetNativeFeed(ctx context.Context, feedID string) error {
	if feedID == "" {
		return core.ErrInvalidFeed
	}

	return s.update(ctx, func(tx *txn) error {
		if s.registry.nativeFeed == feedID {
			return nil
		}

		tx.bindNative(feedID)
		event := tx.emit(core.EventActionSetNativeFeed, "", core.NativeAssetID, nil)
		event.SetExtraData(map[string]string{"feed_id": feedID})
		return nil
	})
}

func (s *Service) HealthFactor(ctx context.Context, userID string) (hf *uint256.Int, err error) {
	err = s.view(ctx, func(ctx context.Context) error {
		hf, err = s.healthFactor(ctx, userID)
		return err
	})

	return
}

func (s *Service) UserInformation(ctx context.Context, userID string) (info *core.UserInformation, err error) {
	err = s.view(ctx, func(ctx context.Context) error {
		info, err = s.userInformation(ctx, userID)
		return err
	})

	return
}

func (s *Service) UsdValue(ctx context.Context, assetID string, amount *uint256.Int) (usd *uint256.Int, err error) {
	err = s.view(ctx, func(ctx context.Context) error {
		usd, err = s.usdValue(ctx, assetID, number.Clone(amount))
		return err
	})

	return
}

func (s *Service) AmountFromUsd(ctx context.Context, assetID string, usd *uint256.Int) (amount *uint256.Int, err error) {
	err = s.view(ctx, func(ctx context.Context) error {
		amount, err = s.amountFromUsd(ctx, assetID, number.Clone(usd))
		return err
	})

	return
}

// TotalLedgerBalance native currency held in custody
func (s *Service) TotalLedgerBalance(ctx context.Context) (balance *uint256.Int, err error) {
	err = s.view(ctx, func(ctx context.Context) error {
		balance, err = s.native.Balance(ctx)
		return err
	})

	return
}

func (s *Service) Assets(ctx context.Context) (assets []*core.Asset, err error) {
	err = s.view(ctx, func(ctx context.Context) error {
		assets = s.registry.list()
		return nil
	})

	return
}

func (s *Service) NativeFeed(ctx context.Context) (feedID string) {
	_ = s.view(ctx, func(ctx context.Context) error {
		feedID = s.registry.nativeFeed
		return nil
	})

	return
}

func (s *Service) Accounts(ctx context.Context) (accounts []string) {
	_ = s.view(ctx, func(ctx context.Context) error {
		accounts = s.state.accounts()
		return nil
	})

	return
}

func (s *Service) Balances(ctx context.Context, userID string) (balances *core.AccountBalances) {
	_ = s.view(ctx, func(ctx context.Context) error {
		balances = s.state.account(userID)
		return nil
	})

	return
}
