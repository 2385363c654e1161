package rest

import (
	"net/http"

	"borrowlend/core"
	"borrowlend/handler/param"
	"borrowlend/handler/render"
	"borrowlend/handler/views"
	"borrowlend/pkg/lending"
	"borrowlend/pkg/number"
)

func assetsHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		assets, err := ledger.Assets(ctx)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Assets(assets, ledger.NativeFeed(ctx)))
	}
}

// valuesHandler usd value of an amount in asset-native units
func valuesHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			AssetID string `json:"asset_id" valid:"required"`
			Amount  string `json:"amount" valid:"required"`
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

		usd, err := ledger.UsdValue(r.Context(), params.AssetID, amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{
			"asset_id": params.AssetID,
			"amount":   amount.Dec(),
			"usd":      views.Usd(usd),
		})
	}
}

// amountsHandler asset-native amount worth a human usd value
func amountsHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			AssetID string `json:"asset_id" valid:"required"`
			Usd     string `json:"usd" valid:"required"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		usd, err := number.ParseUnits(params.Usd, lending.PricePrecision)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		amount, err := ledger.AmountFromUsd(r.Context(), params.AssetID, usd)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{
			"asset_id": params.AssetID,
			"usd":      views.Usd(usd),
			"amount":   amount.Dec(),
		})
	}
}

func balanceHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		balance, err := ledger.TotalLedgerBalance(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{
			"asset_id": core.NativeAssetID,
			"balance":  balance.Dec(),
		})
	}
}
