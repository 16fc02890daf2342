package admin

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_Password(t *testing.T) {
	a, err := NewAuth(AuthConfig{Password: "s3cret"})
	require.NoError(t, err)
	assert.True(t, a.Enabled())
	assert.NoError(t, a.CheckPassword("s3cret"))
	assert.ErrorIs(t, a.CheckPassword("s3cre"), ErrInvalidPassword)
	assert.ErrorIs(t, a.CheckPassword(""), ErrInvalidPassword)

	open, err := NewAuth(AuthConfig{})
	require.NoError(t, err)
	assert.False(t, open.Enabled())
	assert.NoError(t, open.CheckPassword("anything"))
}

func TestAuth_IssueAndValidate(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	a, err := NewAuth(AuthConfig{
		Password: "pw",
		Secret:   []byte("k"),
		TTL:      time.Hour,
		Now:      func() time.Time { return now },
	})
	require.NoError(t, err)

	token, exp, err := a.Issue()
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)
	assert.NoError(t, a.Validate(token))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a jwt", "abc.def.ghi"},
		{"tampered", token + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, a.Validate(tt.token), ErrInvalidToken)
		})
	}
}

func TestAuth_RejectsForeignClaims(t *testing.T) {
	secret := []byte("k")
	a, err := NewAuth(AuthConfig{Password: "pw", Secret: secret})
	require.NoError(t, err)

	sign := func(method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name  string
		token string
	}{
		{"wrong issuer", sign(jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{Issuer: "other", Subject: tokenSubject, ExpiresAt: exp})},
		{"wrong subject", sign(jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: "user", ExpiresAt: exp})},
		{"no expiry", sign(jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: tokenSubject})},
		{"other algorithm", sign(jwt.SigningMethodHS512, secret, jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: tokenSubject, ExpiresAt: exp})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, a.Validate(tt.token), ErrInvalidToken)
		})
	}
}

func TestAuth_RandomSecretPerInstance(t *testing.T) {
	a, err := NewAuth(AuthConfig{Password: "pw"})
	require.NoError(t, err)
	b, err := NewAuth(AuthConfig{Password: "pw"})
	require.NoError(t, err)

	token, _, err := a.Issue()
	require.NoError(t, err)
	assert.NoError(t, a.Validate(token))
	assert.ErrorIs(t, b.Validate(token), ErrInvalidToken)
}
