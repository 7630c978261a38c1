// Package auth extracts the caller identity from tokens minted by the
// external identity provider. The backend checks signature and issuer only;
// authentication policy itself lives with the provider.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the identity claims the backend consumes
type Claims struct {
	UserID string `json:"sub"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// JWTConfig configures token validation
type JWTConfig struct {
	SecretKey string
	Issuer    string
}

// JWTValidator validates provider-issued HS256 tokens
type JWTValidator struct {
	secret []byte
	issuer string
}

// NewJWTValidator creates a validator from config
func NewJWTValidator(cfg JWTConfig) (*JWTValidator, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &JWTValidator{
		secret: []byte(cfg.SecretKey),
		issuer: cfg.Issuer,
	}, nil
}

// Validate parses and verifies a token, returning its identity claims
func (v *JWTValidator) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("token missing subject claim")
	}
	return claims, nil
}
