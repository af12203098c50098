package auth

import (
	"strings"
	"testing"
	"time"

	"user-api/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	password := "mySecretPassword123"
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEqual(t, password, hash)

	require.True(t, hasher.Matches(hash, password), "Password should match the hash")
	require.False(t, hasher.Matches(hash, "wrongPassword"), "Wrong password should not match the hash")
	require.False(t, hasher.Matches(password, password), "A plaintext value is not a valid stored hash")
}

func TestBcryptHasher_PasswordTooLong(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MinCost).Hash(strings.Repeat("x", 73))
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestNewTokenIssuer_RequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer("", time.Hour)
	require.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	issuer, err := NewTokenIssuer("my_super_secret_key_for_testing", time.Hour)
	require.NoError(t, err)

	tokenString, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	identity, err := issuer.Verify(tokenString)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", identity)

	claims := &AppClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tokenString, claims)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", claims.Subject)
	require.Len(t, claims.ID, 21)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)

	other, err := NewTokenIssuer("wrong_secret", time.Hour)
	require.NoError(t, err)
	_, err = other.Verify(tokenString)
	require.ErrorIs(t, err, ErrInvalidToken)
	require.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestVerify_Expired(t *testing.T) {
	issuer, err := NewTokenIssuer("secret", time.Minute)
	require.NoError(t, err)

	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tokenString, err := issuer.Issue("bob@example.com")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(tokenString)
	require.ErrorIs(t, err, ErrExpiredToken)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_Garbage(t *testing.T) {
	issuer, err := NewTokenIssuer("secret", time.Minute)
	require.NoError(t, err)

	_, err = issuer.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &AppClaims{Email: "x@example.com"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Verify(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)
}
