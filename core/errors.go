package core

import (
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
)

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden operation forbidden
	ErrOperationForbidden ErrorCode = 100001
	// ErrInvalidArgument invalid argument
	ErrInvalidArgument ErrorCode = 100002
	// ErrReentrantCall a collaborator called back into a running operation
	ErrReentrantCall ErrorCode = 100003
	// ErrPersistFailed committed state could not be written to the store
	ErrPersistFailed ErrorCode = 100004

	// ErrZeroAmount zero amount
	ErrZeroAmount ErrorCode = 100100
	// ErrTokenNotAllowed asset has no feed binding
	ErrTokenNotAllowed ErrorCode = 100101
	// ErrInvalidFeed empty feed id
	ErrInvalidFeed ErrorCode = 100102

	// ErrInsufficientBalance deposit balance too small
	ErrInsufficientBalance ErrorCode = 100200
	// ErrOverpayment repay amount exceeds debt
	ErrOverpayment ErrorCode = 100201
	// ErrContractUnderFunded custody cannot cover the borrow
	ErrContractUnderFunded ErrorCode = 100202

	// ErrOverLeveraged health factor below minimum after the operation
	ErrOverLeveraged ErrorCode = 100300
	// ErrNotLiquidatable health factor not below minimum
	ErrNotLiquidatable ErrorCode = 100301

	// ErrIncorrectRepaymentToken repay asset resolves to zero usd
	ErrIncorrectRepaymentToken ErrorCode = 100400
	// ErrNoRewardForLiquidation payout resolves to zero
	ErrNoRewardForLiquidation ErrorCode = 100401

	// ErrTransferFailed external transfer failed
	ErrTransferFailed ErrorCode = 100500
	// ErrInvalidPrice oracle returned a non-positive price
	ErrInvalidPrice ErrorCode = 100501
	// ErrStalePrice oracle price older than allowed
	ErrStalePrice ErrorCode = 100502

	// ErrArithmeticOverflow fixed-point result does not fit 256 bits
	ErrArithmeticOverflow ErrorCode = 100600
)

var codeNames = map[ErrorCode]string{
	ErrUnknown:                 "unknown",
	ErrOperationForbidden:      "operation forbidden",
	ErrInvalidArgument:         "invalid argument",
	ErrReentrantCall:           "reentrant call",
	ErrPersistFailed:           "persist failed",
	ErrZeroAmount:              "zero amount",
	ErrTokenNotAllowed:         "token not allowed",
	ErrInvalidFeed:             "invalid feed",
	ErrInsufficientBalance:     "insufficient balance",
	ErrOverpayment:             "overpayment",
	ErrContractUnderFunded:     "contract under funded",
	ErrOverLeveraged:           "over leveraged",
	ErrNotLiquidatable:         "not liquidatable",
	ErrIncorrectRepaymentToken: "incorrect repayment token",
	ErrNoRewardForLiquidation:  "no reward for liquidation",
	ErrTransferFailed:          "transfer failed",
	ErrInvalidPrice:            "invalid price",
	ErrStalePrice:              "stale price",
	ErrArithmeticOverflow:      "arithmetic overflow",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	if name, ok := codeNames[e]; ok {
		return name
	}

	return e.String()
}

// Code returns the code itself so bare codes and payload errors share one accessor
func (e ErrorCode) Code() ErrorCode {
	return e
}

// Coder is implemented by every ledger error
type Coder interface {
	Code() ErrorCode
}

// CodeOf returns the ledger error code carried by err, ErrUnknown otherwise
func CodeOf(err error) ErrorCode {
	for err != nil {
		if c, ok := err.(Coder); ok {
			return c.Code()
		}

		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}

	return ErrUnknown
}

// TokenNotAllowedError asset absent from the registry
type TokenNotAllowedError struct {
	AssetID string
}

func (e *TokenNotAllowedError) Error() string {
	return fmt.Sprintf("token not allowed: %s", e.AssetID)
}

func (e *TokenNotAllowedError) Code() ErrorCode { return ErrTokenNotAllowed }
func (e *TokenNotAllowedError) Is(target error) bool { return target == ErrTokenNotAllowed }

// InsufficientBalanceError withdraw or payout exceeds the deposit balance
type InsufficientBalanceError struct {
	Available *uint256.Int
	Required  *uint256.Int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %s, required %s", e.Available.Dec(), e.Required.Dec())
}

func (e *InsufficientBalanceError) Code() ErrorCode { return ErrInsufficientBalance }
func (e *InsufficientBalanceError) Is(target error) bool { return target == ErrInsufficientBalance }

// OverpaymentError repay amount exceeds the outstanding debt
type OverpaymentError struct {
	Available *uint256.Int
	Requested *uint256.Int
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("overpayment: borrowed %s, requested %s", e.Available.Dec(), e.Requested.Dec())
}

func (e *OverpaymentError) Code() ErrorCode { return ErrOverpayment }
func (e *OverpaymentError) Is(target error) bool { return target == ErrOverpayment }

// ContractUnderFundedError custody holds less than the requested borrow
type ContractUnderFundedError struct {
	Available *uint256.Int
	Required  *uint256.Int
}

func (e *ContractUnderFundedError) Error() string {
	return fmt.Sprintf("contract under funded: available %s, required %s", e.Available.Dec(), e.Required.Dec())
}

func (e *ContractUnderFundedError) Code() ErrorCode { return ErrContractUnderFunded }
func (e *ContractUnderFundedError) Is(target error) bool { return target == ErrContractUnderFunded }

// OverLeveragedError the operation would leave the account below the minimum health factor
type OverLeveragedError struct {
	MinRequired *uint256.Int
	Actual      *uint256.Int
}

func (e *OverLeveragedError) Error() string {
	return fmt.Sprintf("over leveraged: minimum %s, actual %s", e.MinRequired.Dec(), e.Actual.Dec())
}

func (e *OverLeveragedError) Code() ErrorCode { return ErrOverLeveraged }
func (e *OverLeveragedError) Is(target error) bool { return target == ErrOverLeveraged }

// NotLiquidatableError the account health factor is not below the minimum
type NotLiquidatableError struct {
	Current *uint256.Int
	Minimum *uint256.Int
}

func (e *NotLiquidatableError) Error() string {
	return fmt.Sprintf("not liquidatable: health factor %s, minimum %s", e.Current.Dec(), e.Minimum.Dec())
}

func (e *NotLiquidatableError) Code() ErrorCode { return ErrNotLiquidatable }
func (e *NotLiquidatableError) Is(target error) bool { return target == ErrNotLiquidatable }

// IncorrectRepaymentTokenError half of the debt in the repay asset is worth nothing
type IncorrectRepaymentTokenError struct {
	AssetID string
}

func (e *IncorrectRepaymentTokenError) Error() string {
	return fmt.Sprintf("incorrect repayment token: %s", e.AssetID)
}

func (e *IncorrectRepaymentTokenError) Code() ErrorCode { return ErrIncorrectRepaymentToken }
func (e *IncorrectRepaymentTokenError) Is(target error) bool { return target == ErrIncorrectRepaymentToken }

// NoRewardForLiquidationError the payout converts to zero units of the reward asset
type NoRewardForLiquidationError struct {
	RewardUsd   *uint256.Int
	HalfDebtUsd *uint256.Int
}

func (e *NoRewardForLiquidationError) Error() string {
	return fmt.Sprintf("no reward for liquidation: reward usd %s, half debt usd %s", e.RewardUsd.Dec(), e.HalfDebtUsd.Dec())
}

func (e *NoRewardForLiquidationError) Code() ErrorCode { return ErrNoRewardForLiquidation }
func (e *NoRewardForLiquidationError) Is(target error) bool { return target == ErrNoRewardForLiquidation }

// TransferFailedError the transfer collaborator rejected a movement
type TransferFailedError struct {
	Transfer *Transfer
	Err      error
}

func (e *TransferFailedError) Error() string {
	if e.Transfer == nil {
		return fmt.Sprintf("transfer failed: %v", e.Err)
	}

	return fmt.Sprintf("transfer failed: %s %s from %s to %s: %v",
		e.Transfer.Amount.Dec(), e.Transfer.AssetID, e.Transfer.From, e.Transfer.To, e.Err)
}

func (e *TransferFailedError) Code() ErrorCode { return ErrTransferFailed }
func (e *TransferFailedError) Is(target error) bool { return target == ErrTransferFailed }
func (e *TransferFailedError) Unwrap() error { return e.Err }
