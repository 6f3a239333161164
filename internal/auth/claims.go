package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"donatello/backend/internal/common"
)

// UserClaims is the caller identity the HTTP adapter resolves before invoking
// a service operation. The principal is the username.
type UserClaims interface {
	Username() string
	UserID() string
}

// SessionClaims is the JWT-backed implementation used by the login flow.
type SessionClaims struct {
	Subject  string
	UserUUID string
}

func (c *SessionClaims) Username() string { return c.Subject }
func (c *SessionClaims) UserID() string   { return c.UserUUID }

type sessionTokenClaims struct {
	UserUUID string `json:"uid"`
	jwt.RegisteredClaims
}

// CreateSessionToken signs a login session token with the server secret.
func CreateSessionToken(secret string, username, userID string, ttl time.Duration, now time.Time) (string, error) {
	claims := sessionTokenClaims{
		UserUUID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ParseSessionToken validates a session token and returns the claims.
func ParseSessionToken(secret string, tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionTokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{"HS512"}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.NewServiceError(common.ErrUnauthorized, "Session expired")
		}
		return nil, common.NewServiceError(common.ErrUnauthorized, "Invalid session token")
	}

	claims, ok := token.Claims.(*sessionTokenClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, common.NewServiceError(common.ErrUnauthorized, "Invalid session token")
	}

	return &SessionClaims{Subject: claims.Subject, UserUUID: claims.UserUUID}, nil
}

type contextKey string

var userClaimsKey contextKey = "user_claims"

func SetUserClaims(ctx context.Context, claims UserClaims) context.Context {
	return context.WithValue(ctx, userClaimsKey, claims)
}

func GetUserClaims(ctx context.Context) UserClaims {
	val := ctx.Value(userClaimsKey)
	if claims, ok := val.(UserClaims); ok {
		return claims
	}
	return nil
}
