package auth

import (
	"net/http"
	"strings"

	"borrowlend/handler/render"
	"borrowlend/handler/request"

	"github.com/fox-one/pkg/logger"
	"github.com/twitchtv/twirp"
)

// HeaderUserID header carrying the caller id
const HeaderUserID = "X-User-ID"

// HandleAuthentication handle authentication
func HandleAuthentication() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx = logger.WithContext(ctx, logger.FromContext(ctx).WithField("caller", userID))
			next.ServeHTTP(w, r.WithContext(request.NewContext(ctx).WithUser(userID)))
		}

		return http.HandlerFunc(fn)
	}
}

// LoginRequired reject requests without a caller id
func LoginRequired(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if _, ok := request.NewContext(r.Context()).GetUser(); !ok {
			render.Error(w, twirp.NewError(twirp.Unauthenticated, "authentication required"))
			return
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

// AdminRequired reject callers for which isAdmin reports false
func AdminRequired(isAdmin func(userID string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			userID, ok := request.NewContext(r.Context()).GetUser()
			if !ok {
				render.Error(w, twirp.NewError(twirp.Unauthenticated, "authentication required"))
				return
			}

			if !isAdmin(userID) {
				render.Error(w, twirp.NewError(twirp.PermissionDenied, "admin only"))
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}
