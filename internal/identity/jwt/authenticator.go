// Package jwt issues and validates signed identity tokens.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/avelius/taskboard/internal/domain"
	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Token validation errors. The distinction matters for logging and metrics;
// clients receive the same 401 either way.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the payload of an access token.
type Claims struct {
	jwtlib.RegisteredClaims
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// Config contains token signing configuration. Loaded once at startup and
// never mutated.
type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TokenTTL time.Duration
}

// Authenticator issues and validates HS256-signed tokens. Tokens are
// self-contained: validation needs no store round-trip.
type Authenticator struct {
	secret   []byte
	issuer   string
	audience string
	tokenTTL time.Duration
}

// NewAuthenticator creates a new token authenticator.
func NewAuthenticator(cfg Config) *Authenticator {
	return &Authenticator{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		tokenTTL: cfg.TokenTTL,
	}
}

// Issue builds and signs a token for the user.
func (a *Authenticator) Issue(user *domain.User) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    a.issuer,
			Audience:  jwtlib.ClaimStrings{a.audience},
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(a.tokenTTL)),
		},
		Email: user.Email,
		Role:  user.Role,
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature, expiry (zero leeway), issuer and audience,
// and returns the token claims. Failures are ErrTokenExpired or
// ErrTokenInvalid; the underlying cause is wrapped for server-side logs.
func (a *Authenticator) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwtlib.ParseWithClaims(tokenString, claims,
		func(t *jwtlib.Token) (interface{}, error) {
			return a.secret, nil
		},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(a.issuer),
		jwtlib.WithAudience(a.audience),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" || !claims.Role.IsValid() {
		return nil, fmt.Errorf("%w: missing or malformed identity claims", ErrTokenInvalid)
	}

	return claims, nil
}
