package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tidescale/crmhub/internal/authz"
	"github.com/tidescale/crmhub/internal/contexts"
	"github.com/tidescale/crmhub/internal/objects"
)

func NewAuthHandlers() *AuthHandlers {
	return &AuthHandlers{}
}

type AuthHandlers struct{}

type MeResponse struct {
	Principal objects.PrincipalInfo `json:"principal"`
	Tenant    objects.TenantInfo    `json:"tenant"`
}

// Me echoes the caller identity and tenant scope as the pipeline resolved
// them. Useful for integrations debugging their credentials.
func (h *AuthHandlers) Me(c *gin.Context) {
	ctx := c.Request.Context()

	principal, ok := authz.GetPrincipal(ctx)
	if !ok {
		JSONError(c, http.StatusUnauthorized, errors.New("not authenticated"))
		return
	}

	tenantID, _ := contexts.GetTenantID(ctx)
	source, _ := contexts.GetTenantSource(ctx)

	c.JSON(http.StatusOK, MeResponse{
		Principal: objects.PrincipalInfo{
			ID:       principal.ID,
			TenantID: principal.TenantID,
			Role:     string(principal.Role),
		},
		Tenant: objects.TenantInfo{
			ID:     tenantID,
			Source: source,
		},
	})
}
