package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jaevor/go-nanoid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const issuer = "user-api"

type AppClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens bound to an identity
// string (the user's email).
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
}

func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	generateID, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}

	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		newID:  generateID,
	}, nil
}

func (ti *TokenIssuer) Issue(identity string) (string, error) {
	now := ti.now()

	claims := &AppClaims{
		Email: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			ID:        ti.newID(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(ti.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify returns the identity bound to tokenString. Failures are reported as
// ErrExpiredToken or ErrInvalidToken wrapping the parser error.
func (ti *TokenIssuer) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AppClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return ti.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %w", ErrExpiredToken, err)
		}
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AppClaims)
	if !ok || !token.Valid || claims.Email == "" {
		return "", ErrInvalidToken
	}

	return claims.Email, nil
}
