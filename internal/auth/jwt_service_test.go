package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	require.EqualError(t, err, "jwt: secret must be provided")
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }

	svc, err := NewJWTService(JWTConfig{
		Secret:         "super-secret",
		Issuer:         "findscooter",
		AccessTokenTTL: time.Hour,
		Clock:          now,
	})
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(AccessTokenInput{
		AccountID: "account-1",
		FirstName: "Ben",
		LastName:  "Haham",
		Email:     "b@x.com",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "account-1", claims.AccountID)
	require.Equal(t, "Ben", claims.FirstName)
	require.Equal(t, "Haham", claims.LastName)
	require.Equal(t, "b@x.com", claims.Email)
	require.Equal(t, "findscooter", claims.Issuer)
	require.Equal(t, "account-1", claims.Subject)
	require.Equal(t, current.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestGenerateAccessTokenRequiresAccountID(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "super-secret"})
	require.NoError(t, err)

	_, err = svc.GenerateAccessToken(AccessTokenInput{})
	require.EqualError(t, err, "jwt: account id is required")
}

func TestValidateAccessTokenExpired(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }

	svc, err := NewJWTService(JWTConfig{
		Secret:         "super-secret",
		AccessTokenTTL: time.Minute,
		Clock:          now,
	})
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(AccessTokenInput{AccountID: "account-1"})
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)

	_, err = svc.ValidateAccessToken(token)
	require.Error(t, err)
	require.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestValidateAccessTokenRejectsTamperedSignature(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "super-secret"})
	require.NoError(t, err)

	other, err := NewJWTService(JWTConfig{Secret: "different-secret"})
	require.NoError(t, err)

	token, err := other.GenerateAccessToken(AccessTokenInput{AccountID: "account-1"})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	require.Error(t, err)
	require.True(t, errors.Is(err, jwt.ErrTokenSignatureInvalid))
}

func TestValidateAccessTokenRejectsWrongIssuer(t *testing.T) {
	issuerA, err := NewJWTService(JWTConfig{Secret: "super-secret", Issuer: "findscooter"})
	require.NoError(t, err)

	issuerB, err := NewJWTService(JWTConfig{Secret: "super-secret", Issuer: "someone-else"})
	require.NoError(t, err)

	token, err := issuerB.GenerateAccessToken(AccessTokenInput{AccountID: "account-1"})
	require.NoError(t, err)

	_, err = issuerA.ValidateAccessToken(token)
	require.EqualError(t, err, "jwt: invalid issuer")
}

func TestValidateAccessTokenRequiresExpiry(t *testing.T) {
	secret := "super-secret"

	// A token without an exp claim must not validate.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": "account-1",
	})
	token, err := unsigned.SignedString([]byte(secret))
	require.NoError(t, err)

	svc, err := NewJWTService(JWTConfig{Secret: secret})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	require.Error(t, err)
	require.True(t, errors.Is(err, jwt.ErrTokenRequiredClaimMissing))
}

func TestValidateAccessTokenEmptyString(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "super-secret"})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken("")
	require.EqualError(t, err, "jwt: token string is empty")
}
