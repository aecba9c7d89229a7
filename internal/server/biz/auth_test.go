package biz

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/tidescale/crmhub/internal/authz"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

func TestAuthService_AuthenticateToken(t *testing.T) {
	svc := NewAuthService(AuthConfig{Enabled: true, Secret: testSecret})

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":       "user-1",
		"role":      "sales_user",
		"tenant_id": "acme",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	principal, err := svc.AuthenticateToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "user-1", principal.ID)
	require.Equal(t, "acme", principal.TenantID)
	require.Equal(t, authz.RoleSalesUser, principal.Role)
}

func TestAuthService_AuthenticateToken_Cached(t *testing.T) {
	svc := NewAuthService(AuthConfig{Enabled: true, Secret: testSecret})

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "user-1",
		"role": "manager",
		"exp":  time.Now().Add(time.Minute).Unix(),
	})

	first, err := svc.AuthenticateToken(context.Background(), token)
	require.NoError(t, err)

	// Second verification is served from cache.
	second, err := svc.AuthenticateToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestAuthService_AuthenticateToken_WrongSecret(t *testing.T) {
	svc := NewAuthService(AuthConfig{Enabled: true, Secret: testSecret})

	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub":  "user-1",
		"role": "manager",
		"exp":  time.Now().Add(time.Minute).Unix(),
	})

	_, err := svc.AuthenticateToken(context.Background(), token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_AuthenticateToken_Expired(t *testing.T) {
	svc := NewAuthService(AuthConfig{Enabled: true, Secret: testSecret})

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "user-1",
		"role": "manager",
		"exp":  time.Now().Add(-time.Minute).Unix(),
	})

	_, err := svc.AuthenticateToken(context.Background(), token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_AuthenticateToken_MissingClaims(t *testing.T) {
	svc := NewAuthService(AuthConfig{Enabled: true, Secret: testSecret})

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{name: "no sub", claims: jwt.MapClaims{"role": "manager"}},
		{name: "no role", claims: jwt.MapClaims{"sub": "user-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := signToken(t, testSecret, tt.claims)

			_, err := svc.AuthenticateToken(context.Background(), token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestAuthService_AuthenticateToken_UnknownRolePassesThrough(t *testing.T) {
	svc := NewAuthService(AuthConfig{Enabled: true, Secret: testSecret})

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "user-1",
		"role": "intern",
	})

	// Role validity is the authorizer's concern, not authentication's.
	principal, err := svc.AuthenticateToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, authz.Role("intern"), principal.Role)
}

func TestAuthService_AuthenticateToken_Disabled(t *testing.T) {
	svc := NewAuthService(AuthConfig{Enabled: false, Secret: testSecret})

	_, err := svc.AuthenticateToken(context.Background(), "any")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_AuthenticateToken_Issuer(t *testing.T) {
	svc := NewAuthService(AuthConfig{Enabled: true, Secret: testSecret, Issuer: "crmhub"})

	good := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1", "role": "manager", "iss": "crmhub",
	})
	bad := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1", "role": "manager", "iss": "someone-else",
	})

	_, err := svc.AuthenticateToken(context.Background(), good)
	require.NoError(t, err)

	_, err = svc.AuthenticateToken(context.Background(), bad)
	require.ErrorIs(t, err, ErrInvalidToken)
}
