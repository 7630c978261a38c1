package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vault-backend/pkg/auth"
)

func echoIdentity(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.GetUserFromContext(r.Context())
		require.NoError(t, err)
		w.Write([]byte(user.UserID))
	})
}

func TestAuthenticate_TrustedProxyMode(t *testing.T) {
	handler := Authenticate(nil)(echoIdentity(t))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	r.Header.Set("X-Vault-Identity", "jane@example.com")
	r.Header.Set("X-Vault-Name", "Jane")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jane@example.com", rec.Body.String())
}

func TestAuthenticate_TrustedProxyMode_MissingIdentity(t *testing.T) {
	handler := Authenticate(nil)(echoIdentity(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/user", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_JWTMode(t *testing.T) {
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "test-secret"})
	require.NoError(t, err)
	handler := Authenticate(validator)(echoIdentity(t))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "jane@example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	r.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jane@example.com", rec.Body.String())
}

func TestAuthenticate_JWTMode_Rejections(t *testing.T) {
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "test-secret"})
	require.NoError(t, err)
	handler := Authenticate(validator)(echoIdentity(t))

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"bad token", "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	// Identity headers are ignored once a validator is configured.
	r := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	r.Header.Set("X-Vault-Identity", "jane@example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
