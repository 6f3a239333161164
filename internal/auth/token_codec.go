package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"donatello/backend/internal/common"
	"donatello/backend/internal/constants"
)

// TokenPayload is the decoded content of an opaque token envelope.
type TokenPayload struct {
	UserID    string
	ExpiresAt time.Time
}

// TokenCodec issues and verifies the HMAC-signed envelopes used for email
// confirmation and password reset. The signing key is the owning user's
// current password hash, so replacing the hash invalidates every token
// issued before the change.
type TokenCodec struct {
	clock common.Clock
}

func NewTokenCodec(clock common.Clock) *TokenCodec {
	return &TokenCodec{clock: clock}
}

// Issue encodes {user id, expiry} signed with the key, HS512. Output is
// URL-safe (compact JWS).
func (c *TokenCodec) Issue(userID string, key string, lifetime time.Duration) (string, error) {
	expiresAt := c.clock.Now().Add(lifetime)

	claims := jwt.MapClaims{
		"data": userID,
		"exp":  expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(key))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Decode verifies the signature with the key and then the payload expiry
// against the codec clock. The signature check runs first, so a forged token
// with a doctored expiry reads as invalid rather than expired.
func (c *TokenCodec) Decode(tokenString string, key string) (*TokenPayload, error) {
	token, err := jwt.Parse(tokenString,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(key), nil
		},
		jwt.WithTimeFunc(c.clock.Now),
		jwt.WithValidMethods([]string{"HS512"}),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.WrapServiceError(common.ErrTokenExpiredCrypto, constants.MsgTokenExpired, err)
		default:
			return nil, common.WrapServiceError(common.ErrInvalidToken, constants.MsgInvalidToken, err)
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, common.NewServiceError(common.ErrInvalidToken, constants.MsgInvalidToken)
	}

	userID, ok := claims["data"].(string)
	if !ok || userID == "" {
		return nil, common.NewServiceError(common.ErrInvalidToken, constants.MsgInvalidToken)
	}

	expFloat, ok := claims["exp"].(float64)
	if !ok {
		return nil, common.NewServiceError(common.ErrInvalidToken, constants.MsgInvalidToken)
	}

	return &TokenPayload{
		UserID:    userID,
		ExpiresAt: time.Unix(int64(expFloat), 0),
	}, nil
}
