// internal/server/token.go
//
// 登入後核發的工作階段 token（HS256 JWT），取代 GUI 中「目前登入帳戶」的狀態。
package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errInvalidToken = errors.New("invalid or expired token")

// Claims is the session token payload.
type Claims struct {
	AccountID string `json:"accountId"`
	jwt.RegisteredClaims
}

// TokenIssuer 負責核發與驗證 token。
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer 以 secret 簽章，token 有效期為 ttl。
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}
}

// Issue 為 accountID 核發新 token。
func (t *TokenIssuer) Issue(accountID string) (string, error) {
	now := t.now()
	claims := Claims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
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

// Parse 驗證 token 並回傳其中的帳號。
func (t *TokenIssuer) Parse(raw string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid || claims.AccountID == "" {
		return "", errInvalidToken
	}
	return claims.AccountID, nil
}
