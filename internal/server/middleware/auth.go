package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tidescale/crmhub/internal/authz"
	"github.com/tidescale/crmhub/internal/contexts"
	"github.com/tidescale/crmhub/internal/log"
	"github.com/tidescale/crmhub/internal/server/biz"
	"github.com/tidescale/crmhub/internal/tenant"
)

// WithAuth authenticates the bearer token, if one is presented, and installs
// the resulting principal into the request context. Requests without any
// credentials pass through anonymous; whether anonymity suffices is decided
// downstream per route.
func WithAuth(config biz.AuthConfig, svc *biz.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !config.Enabled {
			c.Next()
			return
		}

		token, err := ExtractTokenFromRequest(c.Request, DefaultTokenConfig)
		if err != nil {
			if IsNoToken(err) {
				c.Next()
				return
			}

			AbortWithError(c, http.StatusUnauthorized, err)

			return
		}

		ctx := c.Request.Context()

		principal, err := svc.AuthenticateToken(ctx, token)
		if err != nil {
			AbortWithError(c, http.StatusUnauthorized, err)
			return
		}

		ctx, err = authz.WithPrincipal(ctx, principal)
		if err != nil {
			AbortWithError(c, http.StatusInternalServerError, err)
			return
		}

		// The token may carry the tenant. Earlier resolution sources take
		// precedence; WithTenant is a no-op once the tenant is set.
		if principal.TenantID != "" {
			ctx = contexts.WithTenant(ctx, principal.TenantID, string(tenant.SourceToken))
		}

		log.Debug(ctx, "auth: principal authenticated",
			log.String("principal", principal.String()),
			log.String("role", string(principal.Role)),
		)

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
