package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue("operator", RoleOperator)
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)
	assert.Equal(t, RoleOperator, claims.Role)
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	svc, err := NewTokenService("secret", time.Minute)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := svc.Issue("operator", RoleOperator)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Parse(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	other, err := NewTokenService("other-secret", time.Minute)
	require.NoError(t, err)
	foreign, err := other.Issue("operator", RoleOperator)
	require.NoError(t, err)
	_, err = svc.Parse(foreign)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Minute)
	assert.ErrorIs(t, err, ErrMissingSecret)
}
