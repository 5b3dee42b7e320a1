package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/carbon-api/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// ErrInvalidToken is returned for every rejected token regardless of the reason.
var ErrInvalidToken = errors.New("invalid access token")

// Validator verifies bearer tokens against the shared secret and expected audience.
type Validator struct {
	secret   []byte
	audience string
	now      func() time.Time
}

// NewValidator builds a Validator from the JWT configuration.
func NewValidator(cfg config.JWTConfig) (*Validator, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if strings.TrimSpace(cfg.Audience) == "" {
		return nil, fmt.Errorf("jwt audience is required")
	}
	return &Validator{
		secret:   []byte(cfg.Secret),
		audience: cfg.Audience,
		now:      time.Now,
	}, nil
}

// Validate checks signature, audience and expiry and returns the caller identity.
func (v *Validator) Validate(tokenString string) (Identity, error) {
	if v == nil {
		return Identity{}, ErrInvalidToken
	}
	if strings.TrimSpace(tokenString) == "" {
		return Identity{}, ErrInvalidToken
	}

	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	userID := strings.TrimSpace(claims.UserID)
	if userID == "" {
		return Identity{}, fmt.Errorf("%w: user_id claim missing", ErrInvalidToken)
	}
	return Identity{UserID: userID}, nil
}

// MintAccessToken signs a token shaped like the identity provider's. The API never
// issues tokens itself; this exists for local tooling and tests.
func MintAccessToken(cfg config.JWTConfig, now time.Time, userID string, ttl time.Duration) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if ttl == 0 {
		ttl = time.Hour
	}

	claims := AccessTokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}
