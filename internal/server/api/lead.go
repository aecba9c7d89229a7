package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/tidescale/crmhub/internal/contexts"
	"github.com/tidescale/crmhub/internal/objects"
	"github.com/tidescale/crmhub/internal/server/biz"
)

type LeadHandlersParams struct {
	fx.In

	LeadService *biz.LeadService
}

func NewLeadHandlers(params LeadHandlersParams) *LeadHandlers {
	return &LeadHandlers{
		LeadService: params.LeadService,
	}
}

type LeadHandlers struct {
	LeadService *biz.LeadService
}

// requestTenant returns the tenant partition the request was scoped to.
func requestTenant(c *gin.Context) (string, bool) {
	tenantID, ok := contexts.GetTenantID(c.Request.Context())
	if !ok || tenantID == "" {
		JSONError(c, http.StatusBadRequest, biz.ErrTenantRequired)
		return "", false
	}

	return tenantID, true
}

func (h *LeadHandlers) List(c *gin.Context) {
	tenantID, ok := requestTenant(c)
	if !ok {
		return
	}

	leads, err := h.LeadService.List(c.Request.Context(), tenantID)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

func (h *LeadHandlers) Get(c *gin.Context) {
	tenantID, ok := requestTenant(c)
	if !ok {
		return
	}

	lead, err := h.LeadService.Get(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandlers) Create(c *gin.Context) {
	tenantID, ok := requestTenant(c)
	if !ok {
		return
	}

	var input objects.LeadInput

	if err := c.ShouldBindJSON(&input); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	lead, err := h.LeadService.Create(c.Request.Context(), tenantID, input)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lead)
}

func (h *LeadHandlers) Update(c *gin.Context) {
	tenantID, ok := requestTenant(c)
	if !ok {
		return
	}

	var input objects.LeadInput

	if err := c.ShouldBindJSON(&input); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	lead, err := h.LeadService.Update(c.Request.Context(), tenantID, c.Param("id"), input)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandlers) Delete(c *gin.Context) {
	tenantID, ok := requestTenant(c)
	if !ok {
		return
	}

	if err := h.LeadService.Delete(c.Request.Context(), tenantID, c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type ShareRequest struct {
	UserIDs []string `json:"userIds" binding:"required"`
}

func (h *LeadHandlers) Share(c *gin.Context) {
	tenantID, ok := requestTenant(c)
	if !ok {
		return
	}

	var req ShareRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	lead, err := h.LeadService.Share(c.Request.Context(), tenantID, c.Param("id"), req.UserIDs)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lead)
}

type AssignRequest struct {
	OwnerID string `json:"ownerId" binding:"required"`
}

func (h *LeadHandlers) Assign(c *gin.Context) {
	tenantID, ok := requestTenant(c)
	if !ok {
		return
	}

	var req AssignRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	lead, err := h.LeadService.Assign(c.Request.Context(), tenantID, c.Param("id"), req.OwnerID)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandlers) Export(c *gin.Context) {
	tenantID, ok := requestTenant(c)
	if !ok {
		return
	}

	data, err := h.LeadService.ExportCSV(c.Request.Context(), tenantID)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="leads.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
