package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/grimoire-backend/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (subject string, role string, err error)
}

type basicVerifier interface {
	Verify(user, password string) bool
}

// AdminAuth admits callers presenting either Basic credentials accepted by
// basic or a bearer token accepted by tokens whose role claim is admin.
// Missing or invalid credentials get 401, a valid non-admin token gets 403.
// Either verifier may be nil to disable that scheme.
func AdminAuth(basic basicVerifier, tokens tokenValidator, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var p ctxutil.Principal

			header := r.Header.Get("Authorization")
			switch {
			case strings.HasPrefix(header, "Basic "):
				user, password, ok := r.BasicAuth()
				if !ok || basic == nil || !basic.Verify(user, password) {
					unauthorized(w)
					return
				}
				p = ctxutil.Principal{Subject: user, Role: ctxutil.RoleAdmin, Method: "basic"}

			case strings.HasPrefix(header, "Bearer "):
				if tokens == nil {
					unauthorized(w)
					return
				}
				subject, role, err := tokens.ValidateAccessToken(strings.TrimPrefix(header, "Bearer "))
				if err != nil {
					logger.DebugContext(r.Context(), "bearer rejected", slog.String("error", err.Error()))
					unauthorized(w)
					return
				}
				if role != ctxutil.RoleAdmin {
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
				p = ctxutil.Principal{Subject: subject, Role: role, Method: "bearer"}

			default:
				unauthorized(w)
				return
			}

			logger.DebugContext(r.Context(), "admin authenticated",
				slog.String("subject", p.Subject),
				slog.String("method", p.Method),
				slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
			)
			next.ServeHTTP(w, r.WithContext(ctxutil.WithPrincipal(r.Context(), p)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="grimoire", charset="UTF-8"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}
