package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/learnhub/elearning-api/internal/access"
	"github.com/learnhub/elearning-api/internal/apperr"
)

var ErrTokenInvalid = apperr.New(apperr.ErrInvalidToken, "Invalid Token")

// Claims is the payload of a session token. The registered exp claim only
// has whole-second resolution, so the exact deadline travels in
// ExpiresAtNano and exp is rounded up to cover it.
type Claims struct {
	UserID        string      `json:"userId"`
	Role          access.Role `json:"role"`
	ExpiresAtNano int64       `json:"expNano"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 session tokens. Tokens are stateless:
// there is no revocation, a token stays valid until it expires.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration, now func() time.Time) *TokenManager {
	if now == nil {
		now = time.Now
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: now}
}

// Issue signs a token for id that expires ttl from now.
func (m *TokenManager) Issue(id access.Identity) (string, error) {
	now := m.now()
	deadline := now.Add(m.ttl)
	claims := Claims{
		UserID:        id.UserID,
		Role:          id.Role,
		ExpiresAtNano: deadline.UnixNano(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(ceilSecond(deadline)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry. Every failure is reported
// as ErrTokenInvalid.
func (m *TokenManager) Verify(token string) (access.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return access.Identity{}, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" || claims.ExpiresAtNano == 0 {
		return access.Identity{}, ErrTokenInvalid
	}
	if !m.now().Before(time.Unix(0, claims.ExpiresAtNano)) {
		return access.Identity{}, ErrTokenInvalid
	}
	return access.Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

func ceilSecond(t time.Time) time.Time {
	r := t.Truncate(time.Second)
	if r.Before(t) {
		r = r.Add(time.Second)
	}
	return r
}
