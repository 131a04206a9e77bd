package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	sessionSecret string
	sessionExpiry time.Duration
)

// InitJWT initializes the session token secret and lifetime
func InitJWT(secret string, expiry time.Duration) {
	sessionSecret = secret
	sessionExpiry = expiry
}

// Claims represents JWT custom claims of a session token
type Claims struct {
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a session token for the given session id and role
func GenerateSessionToken(sessionID, role string, expiresAt time.Time) (string, error) {
	claims := Claims{
		SessionID: sessionID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(sessionSecret))
}

// GenerateSessionID returns a new random session id
func GenerateSessionID() string {
	return uuid.New().String()
}

// ValidateSessionToken validates and parses a session token
func ValidateSessionToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(sessionSecret), nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.SessionID != "" {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// GetSessionExpiry returns the session lifetime
func GetSessionExpiry() time.Duration {
	return sessionExpiry
}
