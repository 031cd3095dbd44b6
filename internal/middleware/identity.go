package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/attendly/api/internal/model"
)

// IdentityResolver turns a bearer token into an identity
type IdentityResolver interface {
	ResolveIdentity(token string) model.Identity
}

// Identity resolves the caller's identity and stores it in the request
// context. Resolution is total: a missing or invalid token yields the guest
// identity and the request proceeds. Rejection is an authorization decision
// made downstream, not an authentication one made here.
func Identity(resolver IdentityResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := resolver.ResolveIdentity(bearerToken(r))

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity extracts the caller's identity from context.
// Requests that never passed the Identity middleware are guests.
func GetIdentity(ctx context.Context) model.Identity {
	if identity, ok := ctx.Value(IdentityKey).(model.Identity); ok {
		return identity
	}
	return model.GuestIdentity()
}

// bearerToken extracts the token from the Authorization header.
// Returns "" for a missing or malformed header.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}
