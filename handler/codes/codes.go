package codes

import (
	"errors"
	"strconv"

	"borrowlend/core"

	"github.com/twitchtv/twirp"
)

const (
	// CustomCodeKey code key
	CustomCodeKey = "custom_code"
)

var twirpCodes = map[core.ErrorCode]twirp.ErrorCode{
	core.ErrOperationForbidden:      twirp.PermissionDenied,
	core.ErrInvalidArgument:         twirp.InvalidArgument,
	core.ErrReentrantCall:           twirp.Aborted,
	core.ErrZeroAmount:              twirp.InvalidArgument,
	core.ErrTokenNotAllowed:         twirp.InvalidArgument,
	core.ErrInvalidFeed:             twirp.InvalidArgument,
	core.ErrInsufficientBalance:     twirp.FailedPrecondition,
	core.ErrOverpayment:             twirp.InvalidArgument,
	core.ErrContractUnderFunded:     twirp.FailedPrecondition,
	core.ErrOverLeveraged:           twirp.FailedPrecondition,
	core.ErrNotLiquidatable:         twirp.FailedPrecondition,
	core.ErrIncorrectRepaymentToken: twirp.InvalidArgument,
	core.ErrNoRewardForLiquidation:  twirp.FailedPrecondition,
	core.ErrTransferFailed:          twirp.FailedPrecondition,
	core.ErrInvalidPrice:            twirp.Unavailable,
	core.ErrStalePrice:              twirp.Unavailable,
	core.ErrArithmeticOverflow:      twirp.OutOfRange,
}

// From convert err into a twirp error carrying the ledger code and its payload as meta
func From(err error) twirp.Error {
	if twerr, ok := err.(twirp.Error); ok {
		return twerr
	}

	code := core.CodeOf(err)
	twcode, ok := twirpCodes[code]
	if !ok {
		twcode = twirp.Internal
	}

	twerr := twirp.NewError(twcode, err.Error()).WithMeta(CustomCodeKey, strconv.Itoa(int(code)))
	for k, v := range payload(err) {
		twerr = twerr.WithMeta(k, v)
	}

	return twerr
}

// Get custom code of twerr, falls back to the http status
func Get(twerr twirp.Error) int {
	if v, err := strconv.Atoi(twerr.Meta(CustomCodeKey)); err == nil {
		return v
	}

	return twirp.ServerHTTPStatusFromErrorCode(twerr.Code())
}

func payload(err error) map[string]string {
	var (
		notAllowed   *core.TokenNotAllowedError
		insufficient *core.InsufficientBalanceError
		overpayment  *core.OverpaymentError
		underFunded  *core.ContractUnderFundedError
		leveraged    *core.OverLeveragedError
		healthy      *core.NotLiquidatableError
		repayment    *core.IncorrectRepaymentTokenError
		noReward     *core.NoRewardForLiquidationError
		transfer     *core.TransferFailedError
	)

	switch {
	case errors.As(err, &notAllowed):
		return map[string]string{"asset_id": notAllowed.AssetID}
	case errors.As(err, &insufficient):
		return map[string]string{"available": insufficient.Available.Dec(), "required": insufficient.Required.Dec()}
	case errors.As(err, &overpayment):
		return map[string]string{"available": overpayment.Available.Dec(), "requested": overpayment.Requested.Dec()}
	case errors.As(err, &underFunded):
		return map[string]string{"available": underFunded.Available.Dec(), "required": underFunded.Required.Dec()}
	case errors.As(err, &leveraged):
		return map[string]string{"min_required": leveraged.MinRequired.Dec(), "actual": leveraged.Actual.Dec()}
	case errors.As(err, &healthy):
		return map[string]string{"current": healthy.Current.Dec(), "minimum": healthy.Minimum.Dec()}
	case errors.As(err, &repayment):
		return map[string]string{"asset_id": repayment.AssetID}
	case errors.As(err, &noReward):
		return map[string]string{"reward_usd": noReward.RewardUsd.Dec(), "half_debt_usd": noReward.HalfDebtUsd.Dec()}
	case errors.As(err, &transfer) && transfer.Transfer != nil:
		return map[string]string{
			"asset_id": transfer.Transfer.AssetID,
			"from":     transfer.Transfer.From,
			"to":       transfer.Transfer.To,
			"amount":   transfer.Transfer.Amount.Dec(),
		}
	default:
		return nil
	}
}
