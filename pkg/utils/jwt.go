package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TokenType string    `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
}

func GenerateTokenPair(userID uuid.UUID, email, role, secret string, expiryHours, refreshExpiryHours int) (*TokenPair, error) {
	if expiryHours <= 0 {
		expiryHours = 24
	}
	if refreshExpiryHours <= 0 {
		refreshExpiryHours = 24 * 7
	}

	now := time.Now()
	accessExpiry := now.Add(time.Duration(expiryHours) * time.Hour)

	access, err := signToken(userID, email, role, tokenTypeAccess, secret, now, accessExpiry)
	if err != nil {
		return nil, err
	}

	refresh, err := signToken(userID, email, role, tokenTypeRefresh, secret, now,
		now.Add(time.Duration(refreshExpiryHours)*time.Hour))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExpiry.Unix(),
	}, nil
}

func signToken(userID uuid.UUID, email, role, tokenType, secret string, issued, expires time.Time) (string, error) {
	claims := Claims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses an access token.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	return parseToken(tokenString, secret, tokenTypeAccess)
}

// ValidateRefreshToken parses a refresh token.
func ValidateRefreshToken(tokenString, secret string) (*Claims, error) {
	return parseToken(tokenString, secret, tokenTypeRefresh)
}

func parseToken(tokenString, secret, tokenType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}
	if claims.TokenType != tokenType {
		return nil, errors.New("unexpected token type")
	}
	return claims, nil
}

// HashToken returns the hex SHA-256 digest under which a refresh token is stored.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
