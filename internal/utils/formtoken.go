// Package utils provides helpers for signing and checking form tokens.
package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrFormTokenMismatch is returned when a token is valid but was issued to
// another browser.
var ErrFormTokenMismatch = errors.New("form token does not match nonce")

// FormToken is a signed HS256 JWT embedded in every HTML form.  It is bound
// to the nonce stored in the browser's cookie, so a token lifted from one
// browser is useless in another.
type FormToken struct {
	Token string
	Exp   time.Time
}

type formClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// NewFormToken signs a token for nonce that expires after ttl.
func NewFormToken(secret, nonce string, ttl time.Duration) (FormToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := formClaims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return FormToken{}, err
	}
	return FormToken{Token: signed, Exp: exp}, nil
}

// VerifyFormToken checks the signature and expiry of raw and that it was
// issued for nonce.
func VerifyFormToken(secret, raw, nonce string) error {
	var claims formClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return err
	}
	if nonce == "" || subtle.ConstantTimeCompare([]byte(claims.Nonce), []byte(nonce)) != 1 {
		return ErrFormTokenMismatch
	}
	return nil
}

// NewNonce returns 32 random bytes, hex encoded.
func NewNonce() (string, error) {
	return randomHex(32)
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
