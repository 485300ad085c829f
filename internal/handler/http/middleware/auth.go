package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// ClaimsFromContext reads the caller identity verified by AuthRequired.
func ClaimsFromContext(ctx context.Context) (auth.Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	workerID, ok := claims["worker_id"].(string)
	if !ok || workerID == "" {
		return auth.Claims{}, auth.ErrWorkerClaimMissing
	}

	isAdmin, _ := claims["is_admin"].(bool)

	return auth.Claims{WorkerID: workerID, IsAdmin: isAdmin}, nil
}
