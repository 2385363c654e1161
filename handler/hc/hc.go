package hc

import (
	"context"
	"net/http"
	"time"

	"borrowlend/handler/render"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/twitchtv/twirp"
)

// Pinger dependency probed on every health check
type Pinger func(ctx context.Context) error

// Handle handle hc request
func Handle(ver string, pingers ...Pinger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver, pingers))
	return r
}

func handle(version string, pingers []Pinger) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		for _, ping := range pingers {
			if err := ping(r.Context()); err != nil {
				render.Error(w, twirp.NewError(twirp.Unavailable, err.Error()))
				return
			}
		}

		uptime := time.Since(b).Truncate(time.Millisecond)
		render.JSON(w, render.H{
			"uptime":  uptime.String(),
			"version": version,
		})
	}
}
