package userservice

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidAccessToken = errors.New("invalid access token")

// TokenSigner issues and verifies HMAC-signed access tokens.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenSigner(secret string, ttl time.Duration) *TokenSigner {
	return &TokenSigner{secret: []byte(secret), ttl: ttl}
}

func (s *TokenSigner) Sign(userID int) (string, time.Time, error) {
	now := time.Now()
	expiry := now.Add(s.ttl)

	claims := jwt.MapClaims{
		"sub": strconv.Itoa(userID),
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(expiry),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiry, nil
}

// Parse verifies the signature and expiry and returns the user ID from the
// sub claim.
func (s *TokenSigner) Parse(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, ErrInvalidAccessToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidAccessToken
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, ErrInvalidAccessToken
	}

	id, err := strconv.Atoi(sub)
	if err != nil || id < 1 {
		return 0, ErrInvalidAccessToken
	}

	return id, nil
}
