package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dragonden/internal/errs"
)

const DefaultTokenTTL = 24 * time.Hour

var ErrInvalidToken = fmt.Errorf("%w: invalid or expired token", errs.ErrUnauthorized)

// Tokens issues and checks HS256 bearer tokens whose subject is the user id.
type Tokens struct {
	Key []byte
	TTL time.Duration
}

func (t Tokens) Issue(userID string, now time.Time) (string, time.Time, error) {
	if len(t.Key) == 0 {
		return "", time.Time{}, errors.New("auth: empty signing key")
	}
	ttl := t.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	expires := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Parse validates raw against now and returns the user id it was issued for.
func (t Tokens) Parse(raw string, now time.Time) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.Key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
