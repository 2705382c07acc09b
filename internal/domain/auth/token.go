package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/yanqian/uptime-status/pkg/errors"
)

const siteSubject = "site"

// TokenVerifier reports whether a token is currently valid. Errors mean "not verified".
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}

// JWTTokens signs and verifies HS256 site tokens keyed by the site secret.
type JWTTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTTokens constructs the signer/verifier pair.
func NewJWTTokens(cfg Config) *JWTTokens {
	return &JWTTokens{secret: []byte(cfg.SecretKey), ttl: cfg.TokenTTL, now: time.Now}
}

// Issue signs a new site token.
func (j *JWTTokens) Issue() (string, time.Time, error) {
	now := j.now()
	expires := now.Add(j.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   siteSubject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, apperrors.Wrap("auth_error", "failed to sign token", err)
	}
	return signed, expires, nil
}

// Verify implements TokenVerifier.
func (j *JWTTokens) Verify(_ context.Context, token string) (bool, error) {
	if _, err := j.Parse(token); err != nil {
		return false, err
	}
	return true, nil
}

// Parse validates signature, algorithm, expiry and subject.
func (j *JWTTokens) Parse(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithSubject(siteSubject),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return Claims{}, apperrors.Wrap("invalid_token", "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return Claims{}, apperrors.Wrap("invalid_token", "token invalid", nil)
	}
	out := Claims{Subject: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
