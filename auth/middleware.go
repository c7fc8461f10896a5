package auth

import (
	"context"
	"kerek/contract"
	"kerek/domain"
	"kerek/errors"
	"log/slog"
	"net/http"
)

type contextKey string

const identityKey contextKey = "identity"

// TokenQueryParam carries the bearer token on WebSocket handshakes,
// browsers cannot set an Authorization header there.
const TokenQueryParam = "token"

// Authenticate validates the token found in the query string and injects the
// caller identity into the request context for downstream handlers.
// Failures are answered with 401 before any upgrade happens.
func Authenticate(validator contract.TokenValidator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := validator.ValidateToken(r.URL.Query().Get(TokenQueryParam))
			if err != nil {
				log.Warn("Rejected connection attempt", "path", r.URL.Path, "error", err)
				http.Error(w, err.Error(), errors.HTTPStatus(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom returns the identity injected by Authenticate.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}
