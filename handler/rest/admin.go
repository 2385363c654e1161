package rest

import (
	"net/http"

	"borrowlend/core"
	"borrowlend/handler/param"
	"borrowlend/handler/render"
	"borrowlend/handler/views"
	"borrowlend/pkg/lending"
	"borrowlend/pkg/number"

	"github.com/twitchtv/twirp"
)

func setAssetHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			AssetID string `json:"asset_id" valid:"required"`
			FeedID  string `json:"feed_id"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := ledger.SetAsset(ctx, params.AssetID, params.FeedID); err != nil {
			render.Error(w, err)
			return
		}

		assets, err := ledger.Assets(ctx)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Assets(assets, ledger.NativeFeed(ctx)))
	}
}

func setNativeFeedHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			FeedID string `json:"feed_id"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := ledger.SetNativeFeed(ctx, params.FeedID); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"feed_id": ledger.NativeFeed(ctx)})
	}
}

// setPriceHandler set a usd price on the fixed oracle
func setPriceHandler(prices PriceSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if prices == nil {
			render.Error(w, twirp.NewError(twirp.Unimplemented, "price oracle is read only"))
			return
		}

		var params struct {
			FeedID string `json:"feed_id" valid:"required"`
			Price  string `json:"price" valid:"required"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		price, err := number.ParseUnits(params.Price, lending.PricePrecision)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if price.IsZero() {
			render.Error(w, core.ErrInvalidPrice)
			return
		}

		prices.SetPrice(params.FeedID, price)
		render.JSON(w, render.H{
			"feed_id": params.FeedID,
			"price":   views.Usd(price),
		})
	}
}

func mintHandler(minter Minter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if minter == nil {
			render.Error(w, twirp.NewError(twirp.Unimplemented, "mint not supported"))
			return
		}

		var params struct {
			AssetID string `json:"asset_id" valid:"required"`
			UserID  string `json:"user_id" valid:"required"`
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

		if err := minter.Mint(r.Context(), params.AssetID, params.UserID, amount); err != nil {
			render.Error(w, twirp.NewError(twirp.InvalidArgument, err.Error()))
			return
		}

		render.JSON(w, render.H{
			"asset_id": params.AssetID,
			"user_id":  params.UserID,
			"amount":   amount.Dec(),
		})
	}
}
