package middleware

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/avoronov/sudoku-server/internal/config"
)

type CtxKey int

const (
	CtxPlayerClaims CtxKey = iota
)

// Auth parses the split auth/sign cookies into player claims and stores
// them in the request context. Requests without valid cookies pass through
// anonymously with the cookies cleared.
func Auth(log *logrus.Logger, cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParsePlayerClaims(r)
			if err != nil {
				cookies.Clear(w)
				h.ServeHTTP(w, r)
				return
			}
			log.WithField("username", claims.Username).Debug("authenticated request")
			ctx := context.WithValue(r.Context(), CtxPlayerClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
