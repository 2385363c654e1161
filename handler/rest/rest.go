package rest

import (
	"context"
	"net/http"

	"borrowlend/core"
	"borrowlend/handler/auth"
	"borrowlend/handler/render"

	"github.com/go-chi/chi"
	"github.com/holiman/uint256"
)

// PriceSetter settable price source
type PriceSetter interface {
	SetPrice(feedID string, price *uint256.Int)
}

// Minter credits fresh units of an asset to an account
type Minter interface {
	Mint(ctx context.Context, assetID, userID string, amount *uint256.Int) error
}

// Config rest api dependencies
type Config struct {
	Ledger  core.ILedgerService
	Events  core.LedgerStore
	Monitor core.IHealthMonitor
	// Prices and Minter are optional, their admin endpoints answer 501 when nil
	Prices  PriceSetter
	Minter  Minter
	IsAdmin func(userID string) bool
}

// Handle handle rest api request
func Handle(cfg Config) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, "not found")
	})

	router.Get("/assets", assetsHandler(cfg.Ledger))
	router.Get("/accounts", accountsHandler(cfg.Ledger))
	router.Get("/accounts/{account}", accountHandler(cfg.Ledger))
	router.Get("/accounts/{account}/health", healthHandler(cfg.Ledger))
	router.Get("/values", valuesHandler(cfg.Ledger))
	router.Get("/amounts", amountsHandler(cfg.Ledger))
	router.Get("/ledger/balance", balanceHandler(cfg.Ledger))
	router.Get("/events", eventsHandler(cfg.Events))
	router.Get("/liquidatable", liquidatableHandler(cfg.Monitor))

	router.Group(func(r chi.Router) {
		r.Use(auth.LoginRequired)

		r.Post("/deposits", depositHandler(cfg.Ledger))
		r.Post("/borrows", borrowHandler(cfg.Ledger))
		r.Post("/repays", repayHandler(cfg.Ledger))
		r.Post("/withdraws", withdrawHandler(cfg.Ledger))
		r.Post("/liquidations", liquidateHandler(cfg.Ledger))
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.AdminRequired(cfg.IsAdmin))

		r.Put("/assets", setAssetHandler(cfg.Ledger))
		r.Put("/native-feed", setNativeFeedHandler(cfg.Ledger))
		r.Put("/prices", setPriceHandler(cfg.Prices))
		r.Post("/mint", mintHandler(cfg.Minter))
	})

	return router
}
