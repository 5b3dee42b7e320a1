package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenClaims is the claim set issued by the identity provider.
type AccessTokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller extracted from a valid token.
type Identity struct {
	UserID string
}
