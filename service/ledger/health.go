package ledger

import (
	"context"

	"borrowlend/core"
	"borrowlend/pkg/lending"
	"borrowlend/pkg/number"

	"github.com/holiman/uint256"
)

func (s *Service) healthFactor(ctx context.Context, userID string) (*uint256.Int, error) {
	info, err := s.userInformation(ctx, userID)
	if err != nil {
		return nil, err
	}

	hf, err := lending.HealthFactor(info.DepositUsd, info.BorrowUsd)
	if err != nil {
		return nil, arithmetic(err)
	}

	return hf, nil
}

// ensureHealthy fails with OverLeveragedError when userID ends below the minimum
func (s *Service) ensureHealthy(ctx context.Context, userID string) error {
	hf, err := s.healthFactor(ctx, userID)
	if err != nil {
		return err
	}

	if !lending.Healthy(hf) {
		return &core.OverLeveragedError{
			MinRequired: number.Clone(lending.MinHealthFactor),
			Actual:      hf,
		}
	}

	return nil
}
