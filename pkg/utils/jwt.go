package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Failure kinds of ParseJWT. Callers branch with errors.Is instead of
// matching message strings.
var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token is expired")
	ErrTokenSignature = errors.New("token signature is invalid")
)

// DefaultTokenTTL is the session credential lifetime.
const DefaultTokenTTL = 7 * 24 * time.Hour

type AuthClaims struct {
	UserID uint   `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

var jwtSecret []byte

// InitJWT sets the signing secret for the process. Must be called before any
// GenerateJWT/ParseJWT.
func InitJWT(secret string) {
	jwtSecret = []byte(secret)
}

func GenerateJWT(userID uint, email, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ParseJWT(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignature
		}
		return jwtSecret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}

	if !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// DecodeUnverified reads the claims without checking signature or expiry.
// Only the page route guard may use it, and only to pick a redirect target;
// anything authorization-sensitive goes through ParseJWT.
func DecodeUnverified(tokenString string) *AuthClaims {
	claims := &AuthClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	if err != nil {
		return nil
	}

	return claims
}
