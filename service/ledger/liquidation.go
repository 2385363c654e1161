package ledger

import (
	"context"

	"borrowlend/core"
	"borrowlend/pkg/lending"
	"borrowlend/pkg/number"
)

// quote settlement of liquidating half of the repay debt of userID
func (s *Service) quote(ctx context.Context, userID, repayAssetID, rewardAssetID string) (*core.Liquidation, error) {
	hf, err := s.healthFactor(ctx, userID)
	if err != nil {
		return nil, err
	}

	if lending.Healthy(hf) {
		return nil, &core.NotLiquidatableError{
			Current: hf,
			Minimum: number.Clone(lending.MinHealthFactor),
		}
	}

	halfDebt := lending.HalfDebt(s.state.get(borrowKey(userID, repayAssetID)))
	if halfDebt.IsZero() {
		return nil, &core.IncorrectRepaymentTokenError{AssetID: repayAssetID}
	}

	halfDebtUsd, err := s.usdValue(ctx, repayAssetID, halfDebt)
	if err != nil {
		return nil, err
	}

	if halfDebtUsd.IsZero() {
		return nil, &core.IncorrectRepaymentTokenError{AssetID: repayAssetID}
	}

	rewardUsd, err := lending.LiquidationReward(halfDebtUsd)
	if err != nil {
		return nil, arithmetic(err)
	}

	totalUsd, err := number.Add(rewardUsd, halfDebtUsd)
	if err != nil {
		return nil, arithmetic(err)
	}

	payout, err := s.amountFromUsd(ctx, rewardAssetID, totalUsd)
	if err != nil {
		return nil, err
	}

	if payout.IsZero() {
		return nil, &core.NoRewardForLiquidationError{RewardUsd: rewardUsd, HalfDebtUsd: halfDebtUsd}
	}

	return &core.Liquidation{
		Account:       userID,
		RepayAssetID:  repayAssetID,
		RewardAssetID: rewardAssetID,
		HalfDebt:      halfDebt,
		HalfDebtUsd:   halfDebtUsd,
		RewardUsd:     rewardUsd,
		Payout:        payout,
	}, nil
}

func (s *Service) liquidate(tx *txn, liquidator string, l *core.Liquidation) error {
	l.Liquidator = liquidator

	if err := s.repay(tx, liquidator, l.Account, l.RepayAssetID, l.HalfDebt); err != nil {
		return err
	}

	return s.withdraw(tx, l.Account, l.RewardAssetID, liquidator, l.Payout)
}

func (s *Service) emitLiquidation(tx *txn, action core.EventAction, l *core.Liquidation) {
	event := tx.emit(action, l.Account, l.RewardAssetID, l.Payout)
	event.SetExtraData(core.LiquidationData{
		Account:       l.Account,
		RepayAssetID:  l.RepayAssetID,
		RewardAssetID: l.RewardAssetID,
		HalfDebt:      l.HalfDebt.Dec(),
		HalfDebtUsd:   l.HalfDebtUsd.Dec(),
		Payout:        l.Payout.Dec(),
		Liquidator:    l.Liquidator,
	})
}

// Liquidate repay half of the repay debt of an unhealthy account and seize
// the repaid value plus the bonus from its reward deposit
func (s *Service) Liquidate(ctx context.Context, liquidator, userID, repayAssetID, rewardAssetID string) (*core.Liquidation, error) {
	if rewardAssetID == core.NativeAssetID {
		return s.LiquidateForNative(ctx, liquidator, userID, repayAssetID)
	}

	var l *core.Liquidation
	err := s.update(ctx, func(tx *txn) error {
		if err := s.checkAsset(rewardAssetID); err != nil {
			return err
		}

		q, err := s.quote(tx.ctx, userID, repayAssetID, rewardAssetID)
		if err != nil {
			return err
		}

		if err := s.liquidate(tx, liquidator, q); err != nil {
			return err
		}

		s.emitLiquidation(tx, core.EventActionLiquidate, q)
		l = q
		return nil
	})

	return l, err
}

// LiquidateForNative Liquidate with the reward paid out of the native deposit
func (s *Service) LiquidateForNative(ctx context.Context, liquidator, userID, repayAssetID string) (*core.Liquidation, error) {
	var l *core.Liquidation
	err := s.update(ctx, func(tx *txn) error {
		q, err := s.quote(tx.ctx, userID, repayAssetID, core.NativeAssetID)
		if err != nil {
			return err
		}

		if err := s.liquidate(tx, liquidator, q); err != nil {
			return err
		}

		s.emitLiquidation(tx, core.EventActionLiquidateNative, q)
		l = q
		return nil
	})

	return l, err
}
