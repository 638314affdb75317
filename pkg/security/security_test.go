package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, h.Verify(hash, "s3cret"))
	assert.False(t, h.Verify(hash, "wrong"))

	other, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes must be salted")

	_, err = h.Hash("")
	assert.Error(t, err)
}

func TestJWTIssuerRoundTrip(t *testing.T) {
	issuer := NewJWTIssuer("secret", "test", 24*time.Hour)

	token, expiresAt, err := issuer.Issue(42, "student")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := issuer.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestJWTIssuerRejectsExpired(t *testing.T) {
	issuer := NewJWTIssuer("secret", "test", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := issuer.Issue(1, "employee")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Resolve(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestJWTIssuerRejectsForeignSignature(t *testing.T) {
	token, _, err := NewJWTIssuer("other", "test", time.Hour).Issue(1, "employee")
	require.NoError(t, err)

	_, err = NewJWTIssuer("secret", "test", time.Hour).Resolve(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTIssuerRejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{UserID: 1, Role: "employee", RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "test",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTIssuer("secret", "test", time.Hour).Resolve(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
