package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the signed payload: {userId, role, userName, exp}.
type Claims struct {
	UserID   int64  `json:"userId"`
	Role     string `json:"role"`
	UserName string `json:"userName"`
	jwt.RegisteredClaims
}

// ErrNoSigningKey is returned by Issue and Verify when Tokens was built
// without a secret.
var ErrNoSigningKey = errors.New("token signing key is empty")

// Tokens signs and verifies HS256 bearer credentials.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a Tokens using secret with the given lifetime.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a credential for id.
func (t *Tokens) Issue(id Identity) (string, error) {
	if len(t.secret) == 0 {
		return "", ErrNoSigningKey
	}
	now := t.now()
	claims := Claims{
		UserID:   id.UserID(),
		Role:     string(id.Role()),
		UserName: id.DisplayName(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and resolves the credential into an
// Identity.
func (t *Tokens) Verify(raw string) (Identity, error) {
	if len(t.secret) == 0 {
		return nil, ErrNoSigningKey
	}
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !tok.Valid {
		return nil, errors.New("invalid token")
	}

	role, err := ParseRole(claims.Role)
	if err != nil {
		return nil, err
	}
	return NewIdentity(claims.UserID, role, claims.UserName)
}
