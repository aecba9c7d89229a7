package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gocache "github.com/patrickmn/go-cache"

	"github.com/tidescale/crmhub/internal/authz"
)

// AuthConfig configures the token authentication collaborator.
type AuthConfig struct {
	// Enabled turns bearer-token authentication on.
	Enabled bool `conf:"enabled" yaml:"enabled" json:"enabled"`

	// Secret is the HMAC key tokens are verified against.
	Secret string `conf:"secret" yaml:"secret" json:"secret"`

	// Issuer, when set, must match the token iss claim.
	Issuer string `conf:"issuer" yaml:"issuer" json:"issuer"`

	// CacheTTL bounds how long a verified token is trusted without
	// re-verification.
	CacheTTL time.Duration `conf:"cache_ttl" yaml:"cache_ttl" json:"cache_ttl"`
}

// ErrInvalidToken is returned for tokens that fail verification or lack the
// claims a principal needs.
var ErrInvalidToken = errors.New("invalid token")

// AuthService verifies bearer tokens into principals. It is the external
// authentication collaborator of the request pipeline: the authorization core
// only ever consumes the Principal this service produces. Token issuance is
// out of scope.
type AuthService struct {
	config AuthConfig
	cache  *gocache.Cache
}

func NewAuthService(config AuthConfig) *AuthService {
	ttl := config.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &AuthService{
		config: config,
		cache:  gocache.New(ttl, 2*ttl),
	}
}

// AuthenticateToken verifies an HMAC-signed JWT and builds the Principal from
// its claims: sub (required), role (required) and tenant_id (optional). The
// role is taken as-is; whether it is recognized is the authorizer's call.
func (s *AuthService) AuthenticateToken(ctx context.Context, token string) (authz.Principal, error) {
	if !s.config.Enabled || s.config.Secret == "" {
		return authz.Principal{}, fmt.Errorf("%w: authentication is not configured", ErrInvalidToken)
	}

	if cached, ok := s.cache.Get(token); ok {
		if principal, ok := cached.(authz.Principal); ok {
			return principal, nil
		}
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		return authz.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return authz.Principal{}, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}

	role, _ := claims["role"].(string)
	if role == "" {
		return authz.Principal{}, fmt.Errorf("%w: missing role claim", ErrInvalidToken)
	}

	tenantID, _ := claims["tenant_id"].(string)

	principal := authz.Principal{
		ID:       subject,
		TenantID: tenantID,
		Role:     authz.Role(role),
	}

	s.cache.SetDefault(token, principal)

	return principal, nil
}
