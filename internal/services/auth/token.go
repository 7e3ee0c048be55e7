package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"cashback-backend/internal/models"
)

// JWTIssuer mints HS256 tokens with the dealer id as subject.
type JWTIssuer struct {
	secret []byte
	expiry time.Duration
}

func NewJWTIssuer(secret string, expiry time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), expiry: expiry}
}

type tokenClaims struct {
	Data string `json:"data"`
	jwt.RegisteredClaims
}

func (i *JWTIssuer) Issue(dealer *models.Dealer) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Data: dealer.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   dealer.ID,
			Audience:  jwt.ClaimStrings{"urn:auth"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Parse validates a token and returns the dealer id it was issued for.
func (i *JWTIssuer) Parse(tokenString string) (string, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
