package middleware

import (
	"net/http"
	"strings"

	"vault-backend/pkg/auth"
	"vault-backend/pkg/common"
)

// Headers honored when no JWT validator is configured (trusted-proxy mode,
// e.g. behind an API gateway that already verified the caller).
const (
	identityHeader = "X-Vault-Identity"
	nameHeader     = "X-Vault-Name"
)

// Authenticate resolves the implicit caller identity for every API request.
//
// With a validator, the identity comes from the provider-issued bearer token.
// Without one, the proxy-supplied identity headers are trusted instead; this
// mode is for development and gateway deployments where token verification
// already happened upstream.
func Authenticate(validator *auth.JWTValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var user auth.UserContext

			if validator != nil {
				token, ok := bearerToken(r)
				if !ok {
					common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
					return
				}
				claims, err := validator.Validate(token)
				if err != nil {
					common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
					return
				}
				user = auth.UserContext{UserID: claims.UserID, Name: claims.Name}
			} else {
				identity := r.Header.Get(identityHeader)
				if identity == "" {
					common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
					return
				}
				user = auth.UserContext{UserID: identity, Name: r.Header.Get(nameHeader)}
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

// bearerToken extracts the token from the Authorization header
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
