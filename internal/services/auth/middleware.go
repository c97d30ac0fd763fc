// filepath: internal/services/auth/middleware.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"aiopro/internal/logging"
	"aiopro/internal/models"
	"aiopro/internal/services"
)

// contextKey avoids collisions with other packages' context values.
type contextKey string

const identityKey contextKey = "identity"

// IdentityFromContext returns the authenticated caller stored by RequireKey.
func IdentityFromContext(ctx context.Context) (*models.KeyIdentity, bool) {
	identity, ok := ctx.Value(identityKey).(*models.KeyIdentity)
	return identity, ok
}

// writeError sends a JSON error response.
func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Middleware provides authentication and authorization middleware.
type Middleware struct {
	Keys  services.KeyService
	Token TokenService
}

// NewMiddleware creates a new instance of Middleware.
func NewMiddleware(keys services.KeyService, token TokenService) *Middleware {
	return &Middleware{
		Keys:  keys,
		Token: token,
	}
}

// RequireKey checks for a Bearer credential: either an API key
// (aio_... or the master key) or a JWT access token.
func (m *Middleware) RequireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="restricted"`)
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}
		credential := strings.TrimPrefix(authHeader, "Bearer ")

		identity, err := m.Keys.Authenticate(r.Context(), credential)
		if err != nil {
			// Not an API key; it may be an access token.
			identity, err = m.Token.ValidateToken(credential)
			if err != nil {
				logging.Log.Warnf("RequireKey: rejected credential for %s: %v", r.URL.Path, err)
				writeError(w, http.StatusUnauthorized, "Invalid API key or token")
				return
			}
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin allows only admin identities through. It assumes RequireKey
// already ran on the request.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			logging.Log.Warnf("RequireAdmin: no identity in context for %s", r.URL.Path)
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
		if !identity.Admin {
			logging.Log.Warnf("RequireAdmin: access DENIED for key '%s' on %s", identity.Name, r.URL.Path)
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
