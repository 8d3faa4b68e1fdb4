package service

import (
	"fmt"
	"strconv"
	"time"

	"abrino-storage/backend/common"
	apierrors "abrino-storage/backend/common/errors"
	"abrino-storage/backend/model"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of an access token.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   int    `json:"role"`
	jwt.RegisteredClaims
}

func tokenKey(token string) string {
	return "token:" + token
}

// GenerateToken issues a signed access token for the user and tracks it so it
// can be revoked server-side by deleting the tracking key.
func GenerateToken(user *model.User) (string, error) {
	expiry := time.Duration(common.AccessTokenExpiry) * time.Minute
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "abrino-storage",
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(common.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	if err := storeSet(tokenKey(signed), strconv.FormatInt(user.ID, 10), expiry); err != nil {
		// Tracking enables revocation, not validity; log and move on.
		common.SysError("failed to track token: " + err.Error())
	}
	return signed, nil
}

// ValidateToken parses and verifies an access token. A token that verifies but
// is no longer tracked has been revoked.
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(common.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apierrors.New(apierrors.ErrInvalidToken, "invalid token")
	}
	if _, tracked := storeGet(tokenKey(tokenString)); !tracked {
		return nil, apierrors.New(apierrors.ErrInvalidToken, "token has been revoked")
	}
	return claims, nil
}

// RevokeToken invalidates an access token immediately.
func RevokeToken(tokenString string) {
	storeDelete(tokenKey(tokenString))
}
