package tenant

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidescale/crmhub/internal/authz"
)

func newRequest(t *testing.T, host, target string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if host != "" {
		req.Host = host
	}

	return req
}

func TestResolve_Precedence(t *testing.T) {
	resolver := NewResolver(Config{})

	t.Run("header wins over subdomain", func(t *testing.T) {
		req := newRequest(t, "other.example.com", "/v1/leads")
		req.Header.Set("X-Tenant-ID", "acme")

		res, err := resolver.Resolve(t.Context(), req)
		require.NoError(t, err)
		assert.Equal(t, "acme", res.TenantID)
		assert.Equal(t, SourceHeader, res.Source)
	})

	t.Run("subdomain wins over query", func(t *testing.T) {
		req := newRequest(t, "acme.example.com", "/v1/leads?tenant=globex")

		res, err := resolver.Resolve(t.Context(), req)
		require.NoError(t, err)
		assert.Equal(t, "acme", res.TenantID)
		assert.Equal(t, SourceSubdomain, res.Source)
	})

	t.Run("token wins over query", func(t *testing.T) {
		ctx, err := authz.WithPrincipal(t.Context(), authz.Principal{ID: "u-1", TenantID: "initech", Role: authz.RoleSalesUser})
		require.NoError(t, err)

		req := newRequest(t, "www.example.com", "/v1/leads?tenant=globex")

		res, err := resolver.Resolve(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "initech", res.TenantID)
		assert.Equal(t, SourceToken, res.Source)
	})

	t.Run("query as last fallback", func(t *testing.T) {
		req := newRequest(t, "example.com", "/webhook?tenant=globex")

		res, err := resolver.Resolve(t.Context(), req)
		require.NoError(t, err)
		assert.Equal(t, "globex", res.TenantID)
		assert.Equal(t, SourceQuery, res.Source)
	})
}

func TestResolve_Subdomain(t *testing.T) {
	resolver := NewResolver(Config{})

	tests := []struct {
		name   string
		host   string
		tenant string
		source Source
	}{
		{"tenant subdomain", "acme.example.com", "acme", SourceSubdomain},
		{"tenant subdomain with port", "acme.example.com:8080", "acme", SourceSubdomain},
		{"reserved www", "www.example.com", "", SourceNone},
		{"reserved api", "api.example.com", "", SourceNone},
		{"reserved app", "app.example.com", "", SourceNone},
		{"bare domain", "example.com", "", SourceNone},
		{"localhost", "localhost", "", SourceNone},
		{"deep subdomain uses first label", "acme.eu.example.com", "acme", SourceSubdomain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := resolver.Resolve(t.Context(), newRequest(t, tt.host, "/"))
			require.NoError(t, err)
			assert.Equal(t, tt.tenant, res.TenantID)
			assert.Equal(t, tt.source, res.Source)
		})
	}
}

func TestResolve_NoSource(t *testing.T) {
	resolver := NewResolver(Config{})

	res, err := resolver.Resolve(t.Context(), newRequest(t, "www.example.com", "/"))
	require.NoError(t, err)
	assert.Empty(t, res.TenantID)
	assert.Equal(t, SourceNone, res.Source)
}

func TestResolve_MalformedQuery(t *testing.T) {
	resolver := NewResolver(Config{})

	req := newRequest(t, "example.com", "/")
	req.URL.RawQuery = "tenant=%zz"

	_, err := resolver.Resolve(t.Context(), req)
	assert.ErrorIs(t, err, ErrInvalidTenantContext)
}

func TestResolve_CustomConfig(t *testing.T) {
	resolver := NewResolver(Config{
		Header:             "X-Org",
		QueryParam:         "org",
		ExcludedSubdomains: []string{"internal"},
	})

	t.Run("custom header", func(t *testing.T) {
		req := newRequest(t, "example.com", "/")
		req.Header.Set("X-Org", "acme")

		res, err := resolver.Resolve(t.Context(), req)
		require.NoError(t, err)
		assert.Equal(t, "acme", res.TenantID)
	})

	t.Run("custom exclusion replaces defaults", func(t *testing.T) {
		res, err := resolver.Resolve(t.Context(), newRequest(t, "internal.example.com", "/"))
		require.NoError(t, err)
		assert.Empty(t, res.TenantID)

		// www is no longer reserved under the custom set.
		res, err = resolver.Resolve(t.Context(), newRequest(t, "www.example.com", "/"))
		require.NoError(t, err)
		assert.Equal(t, "www", res.TenantID)
	})

	t.Run("custom query param", func(t *testing.T) {
		res, err := resolver.Resolve(t.Context(), newRequest(t, "example.com", "/?org=globex"))
		require.NoError(t, err)
		assert.Equal(t, "globex", res.TenantID)
		assert.Equal(t, SourceQuery, res.Source)
	})
}
