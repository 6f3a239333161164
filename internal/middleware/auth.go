package middleware

import (
	"net/http"
	"strings"

	"donatello/backend/internal/auth"
	"donatello/backend/internal/common"
)

// AuthMiddleware parses the bearer session token and stores the caller's
// claims in the request context. Requests without a valid token never reach
// the handler.
func AuthMiddleware(sessionSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, common.NewServiceError(
					common.ErrUnauthorized, "Missing bearer token"))
				return
			}

			claims, err := auth.ParseSessionToken(sessionSecret, strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				common.RespondError(w, err)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
