package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maheshrc27/vizora/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const sessionIssuer = "vizora"

var ErrInvalidSession = errors.New("invalid session token")

var sessionParser = jwt.NewParser(
	jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	jwt.WithIssuer(sessionIssuer),
	jwt.WithExpirationRequired(),
	jwt.WithIssuedAt(),
)

// IssueSessionToken signs an HS256 session cookie value for userID. Each
// token carries its own id.
func IssueSessionToken(secretKey, userID string, ttl time.Duration) (string, error) {
	jti, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	issued := time.Now()
	claims := transfer.CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    sessionIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ParseSessionToken verifies a session cookie value. The returned error
// wraps the jwt library's reason, such as jwt.ErrTokenExpired.
func ParseSessionToken(secretKey, raw string) (*transfer.CustomClaims, error) {
	claims := &transfer.CustomClaims{}
	_, err := sessionParser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if claims.UserID == "" || claims.Subject != claims.UserID {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
