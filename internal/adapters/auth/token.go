package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"acadswap/internal/domain"
)

var errMissingSubject = errors.New("token has no subject")

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

type jwtAuthority struct {
	secret []byte
	now    func() time.Time
}

// JWTAuthority issues and verifies HS256 tokens signed with one shared secret.
type JWTAuthority interface {
	domain.TokenIssuer
	domain.TokenVerifier
}

// NewJWTAuthority returns an issuer/verifier pair sharing secret.
func NewJWTAuthority(secret string) JWTAuthority {
	return &jwtAuthority{secret: []byte(secret), now: time.Now}
}

func (a *jwtAuthority) Issue(userID, email string, expiry time.Duration) (string, error) {
	now := a.now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email: email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (a *jwtAuthority) Verify(token string) (string, error) {
	claims := &jwtClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("verify token: %w", err)
	}
	if claims.Subject == "" {
		return "", errMissingSubject
	}
	return claims.Subject, nil
}
