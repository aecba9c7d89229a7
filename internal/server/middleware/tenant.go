package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tidescale/crmhub/internal/contexts"
	"github.com/tidescale/crmhub/internal/log"
	"github.com/tidescale/crmhub/internal/tenant"
)

// WithTenantResolver determines the tenant partition governing the request
// and annotates the context with it. Resolving no tenant is fine at this
// stage; routes that require one enforce that themselves.
func WithTenantResolver(resolver *tenant.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		resolution, err := resolver.Resolve(ctx, c.Request)
		if err != nil {
			AbortWithError(c, http.StatusBadRequest, err)
			return
		}

		if resolution.TenantID == "" {
			log.Debug(ctx, "tenant: no tenant resolved")
			c.Next()

			return
		}

		log.Debug(ctx, "tenant: resolved",
			log.String("tenant_id", resolution.TenantID),
			log.String("source", string(resolution.Source)),
		)

		ctx = contexts.WithTenant(ctx, resolution.TenantID, string(resolution.Source))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
