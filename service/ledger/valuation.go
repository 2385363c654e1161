package ledger

import (
	"context"
	"fmt"

	"borrowlend/core"
	"borrowlend/pkg/lending"
	"borrowlend/pkg/number"

	"github.com/holiman/uint256"
)

// price latest price of assetID, the lock is held by the caller
func (s *Service) price(ctx context.Context, assetID string) (*uint256.Int, error) {
	feedID, ok := s.registry.feed(assetID)
	if !ok {
		return nil, &core.TokenNotAllowedError{AssetID: assetID}
	}

	p, err := s.oracle.LatestPrice(ctx, feedID)
	if err != nil {
		return nil, err
	}

	if p == nil || p.Value == nil {
		return nil, fmt.Errorf("%w: feed %s", core.ErrInvalidPrice, feedID)
	}

	return p.Value, nil
}

func (s *Service) usdValue(ctx context.Context, assetID string, amount *uint256.Int) (*uint256.Int, error) {
	if _, ok := s.registry.feed(assetID); !ok {
		return nil, &core.TokenNotAllowedError{AssetID: assetID}
	}

	if amount.IsZero() {
		return number.Zero(), nil
	}

	price, err := s.price(ctx, assetID)
	if err != nil {
		return nil, err
	}

	usd, err := lending.UsdValue(amount, price)
	if err != nil {
		return nil, arithmetic(err)
	}

	return usd, nil
}

func (s *Service) amountFromUsd(ctx context.Context, assetID string, usd *uint256.Int) (*uint256.Int, error) {
	price, err := s.price(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if price.IsZero() {
		return nil, fmt.Errorf("%w: zero price for %s", core.ErrInvalidPrice, assetID)
	}

	amount, err := lending.AmountFromUsd(usd, price)
	if err != nil {
		return nil, arithmetic(err)
	}

	return amount, nil
}

// totalUsd sum the usd value of every non-zero balance of one kind.
// Zero balances never reach the oracle.
func (s *Service) totalUsd(ctx context.Context, userID string, kind core.BalanceKind) (*uint256.Int, error) {
	total := number.Zero()

	add := func(assetID string) error {
		amount := s.state.get(balanceKey{userID: userID, assetID: assetID, kind: kind})
		if amount.IsZero() {
			return nil
		}

		usd, err := s.usdValue(ctx, assetID, amount)
		if err != nil {
			return err
		}

		if total, err = number.Add(total, usd); err != nil {
			return arithmetic(err)
		}

		return nil
	}

	if kind == core.BalanceKindDeposit {
		if err := add(core.NativeAssetID); err != nil {
			return nil, err
		}
	}

	for _, asset := range s.registry.assets {
		if err := add(asset.AssetID); err != nil {
			return nil, err
		}
	}

	return total, nil
}

func (s *Service) userInformation(ctx context.Context, userID string) (*core.UserInformation, error) {
	borrowUsd, err := s.totalUsd(ctx, userID, core.BalanceKindBorrow)
	if err != nil {
		return nil, err
	}

	depositUsd, err := s.totalUsd(ctx, userID, core.BalanceKindDeposit)
	if err != nil {
		return nil, err
	}

	return &core.UserInformation{
		BorrowUsd:  borrowUsd,
		DepositUsd: depositUsd,
	}, nil
}
