package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/tidescale/crmhub/internal/contexts"
	"github.com/tidescale/crmhub/internal/tenant"
)

func newTenantRouter() (*gin.Engine, *tenant.Resolution) {
	gin.SetMode(gin.TestMode)

	captured := &tenant.Resolution{}

	router := gin.New()
	router.Use(WithTenantResolver(tenant.NewResolver(tenant.Config{})))
	router.GET("/", func(c *gin.Context) {
		ctx := c.Request.Context()
		captured.TenantID, _ = contexts.GetTenantID(ctx)

		if source, ok := contexts.GetTenantSource(ctx); ok {
			captured.Source = tenant.Source(source)
		}

		c.Status(http.StatusOK)
	})

	return router, captured
}

func TestWithTenantResolver_Header(t *testing.T) {
	router, captured := newTenantRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Tenant-ID", "acme")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "acme", captured.TenantID)
	require.Equal(t, tenant.SourceHeader, captured.Source)
}

func TestWithTenantResolver_Subdomain(t *testing.T) {
	router, captured := newTenantRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "acme.crmhub.example"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "acme", captured.TenantID)
	require.Equal(t, tenant.SourceSubdomain, captured.Source)
}

func TestWithTenantResolver_Query(t *testing.T) {
	router, captured := newTenantRouter()

	req := httptest.NewRequest(http.MethodGet, "/?tenant=globex", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "globex", captured.TenantID)
	require.Equal(t, tenant.SourceQuery, captured.Source)
}

func TestWithTenantResolver_NoTenant(t *testing.T) {
	router, captured := newTenantRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// No tenant is fine at resolution time.
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, captured.TenantID)
}

func TestWithTenantResolver_MalformedQuery(t *testing.T) {
	router, captured := newTenantRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.RawQuery = "tenant=%zz"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, captured.TenantID)
}
