package handler

import (
	"net/http"

	"borrowlend/handler/auth"
	"borrowlend/handler/render"
	"borrowlend/handler/rest"

	"github.com/go-chi/chi"
)

// Server server
type Server struct {
	cfg rest.Config
}

// New new server function
func New(cfg rest.Config) Server {
	return Server{
		cfg: cfg,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(auth.HandleAuthentication())
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, "not found")
	})

	r.Mount("/", rest.Handle(s.cfg))
	return r
}
