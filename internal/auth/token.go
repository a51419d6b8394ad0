package auth

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken indicates a token failed signature or format checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingToken indicates an Authorization header with no token in it.
	ErrMissingToken = errors.New("token does not exist")
)

// TokenService issues and verifies the bearer tokens handed out at signup
// and login. A token carries the owning user's identifier as its subject and
// nothing else: no expiry, no issued-at. Validity is signature verification
// against the process-wide secret alone.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token whose subject is the decimal form of userID.
func (s *TokenService) Issue(userID int64) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject: strconv.FormatInt(userID, 10),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the token signature and returns the embedded subject.
// Any parse or signature failure is reported as ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// VerifyUserID verifies the token and parses its subject as a user identifier.
func (s *TokenService) VerifyUserID(tokenString string) (int64, error) {
	subject, err := s.Verify(tokenString)
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return id, nil
}
