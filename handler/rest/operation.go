package rest

import (
	"context"
	"net/http"

	"borrowlend/core"
	"borrowlend/handler/param"
	"borrowlend/handler/render"
	"borrowlend/handler/request"
	"borrowlend/handler/views"
	"borrowlend/pkg/metrics"
	"borrowlend/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

type operationParams struct {
	AssetID string `json:"asset_id"`
	Amount  string `json:"amount" valid:"required"`
	Native  bool   `json:"native"`
}

func (p *operationParams) parse(r *http.Request) (*uint256.Int, error) {
	if err := param.Binding(r, p); err != nil {
		return nil, err
	}

	if p.Native {
		p.AssetID = core.NativeAssetID
	}

	return number.ParseUnits(p.Amount, 0)
}

func caller(ctx context.Context) string {
	userID, _ := request.NewContext(ctx).GetUser()
	return userID
}

// renderOperation log the outcome and reply with the account balances
func renderOperation(w http.ResponseWriter, r *http.Request, ledger core.ILedgerService, action core.EventAction, userID string, err error) {
	ctx := r.Context()
	log := logger.FromContext(ctx).WithField("action", action)
	metrics.Ledger().ObserveOperation(action, err)

	if err != nil {
		log.WithError(err).Infoln("operation rejected")
		render.Error(w, err)
		return
	}

	render.JSON(w, views.AccountView(ledger.Balances(ctx, userID)))
}

func depositHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := caller(ctx)

		var params operationParams
		amount, err := params.parse(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if params.Native {
			err = ledger.DepositNative(ctx, userID, amount)
			renderOperation(w, r, ledger, core.EventActionDepositNative, userID, err)
			return
		}

		err = ledger.DepositAsset(ctx, userID, params.AssetID, amount)
		renderOperation(w, r, ledger, core.EventActionDeposit, userID, err)
	}
}

func borrowHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := caller(ctx)

		var params operationParams
		amount, err := params.parse(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		err = ledger.Borrow(ctx, userID, params.AssetID, amount)
		renderOperation(w, r, ledger, core.EventActionBorrow, userID, err)
	}
}

func repayHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		payer := caller(ctx)

		var params struct {
			operationParams
			// UserID account whose debt is repaid, the caller by default
			UserID string `json:"user_id"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		amount, err := number.ParseUnits(params.Amount, 0)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		userID := params.UserID
		if userID == "" {
			userID = payer
		}

		err = ledger.Repay(ctx, payer, userID, params.AssetID, amount)
		renderOperation(w, r, ledger, core.EventActionRepay, userID, err)
	}
}

func withdrawHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := caller(ctx)

		var params operationParams
		amount, err := params.parse(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if params.Native {
			err = ledger.WithdrawNative(ctx, userID, amount)
			renderOperation(w, r, ledger, core.EventActionWithdrawNative, userID, err)
			return
		}

		err = ledger.Withdraw(ctx, userID, params.AssetID, amount)
		renderOperation(w, r, ledger, core.EventActionWithdraw, userID, err)
	}
}

func liquidateHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		liquidator := caller(ctx)

		var params struct {
			UserID        string `json:"user_id" valid:"required"`
			RepayAssetID  string `json:"repay_asset_id" valid:"required"`
			RewardAssetID string `json:"reward_asset_id"`
			Native        bool   `json:"native"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		var (
			l      *core.Liquidation
			err    error
			action = core.EventActionLiquidate
		)

		if params.Native || params.RewardAssetID == "" || params.RewardAssetID == core.NativeAssetID {
			action = core.EventActionLiquidateNative
			l, err = ledger.LiquidateForNative(ctx, liquidator, params.UserID, params.RepayAssetID)
		} else {
			l, err = ledger.Liquidate(ctx, liquidator, params.UserID, params.RepayAssetID, params.RewardAssetID)
		}

		metrics.Ledger().ObserveOperation(action, err)
		if err != nil {
			logger.FromContext(ctx).WithError(err).WithField("account", params.UserID).Infoln("liquidation rejected")
			render.Error(w, err)
			return
		}

		render.JSON(w, views.LiquidationView(l))
	}
}
