package rest

import (
	"net/http"

	"borrowlend/core"
	"borrowlend/handler/render"
	"borrowlend/handler/views"

	"github.com/go-chi/chi"
)

func accountsHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, render.H{
			"accounts": ledger.Accounts(r.Context()),
		})
	}
}

func accountHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := chi.URLParam(r, "account")
		render.JSON(w, views.AccountView(ledger.Balances(r.Context(), account)))
	}
}

func healthHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		account := chi.URLParam(r, "account")

		info, err := ledger.UserInformation(ctx, account)
		if err != nil {
			render.Error(w, err)
			return
		}

		hf, err := ledger.HealthFactor(ctx, account)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.HealthView(account, hf, info))
	}
}
