package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/tidescale/crmhub/internal/objects"
	"github.com/tidescale/crmhub/internal/server/biz"
)

type DealHandlersParams struct {
	fx.In

	DealService *biz.DealService
}

func NewDealHandlers(params DealHandlersParams) *DealHandlers {
	return &DealHandlers{
		DealService: params.DealService,
	}
}

type DealHandlers struct {
	DealService *biz.DealService
}

func (h *DealHandlers) List(c *gin.Context) {
	tenantID, ok := requestTenant(c)
	if !ok {
		return
	}

	deals, err := h.DealService.List(c.Request.Context(), tenantID)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deals": deals})
}

func (h *DealHandlers) Get(c *gin.Context) {
	tenantID, ok := requestTenant(c)
	if !ok {
		return
	}

	deal, err := h.DealService.Get(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, deal)
}

func (h *DealHandlers) Create(c *gin.Context) {
	tenantID, ok := requestTenant(c)
	if !ok {
		return
	}

	var input objects.DealInput

	if err := c.ShouldBindJSON(&input); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	deal, err := h.DealService.Create(c.Request.Context(), tenantID, input)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, deal)
}

func (h *DealHandlers) Update(c *gin.Context) {
	tenantID, ok := requestTenant(c)
	if !ok {
		return
	}

	var input objects.DealInput

	if err := c.ShouldBindJSON(&input); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	deal, err := h.DealService.Update(c.Request.Context(), tenantID, c.Param("id"), input)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, deal)
}

func (h *DealHandlers) Delete(c *gin.Context) {
	tenantID, ok := requestTenant(c)
	if !ok {
		return
	}

	if err := h.DealService.Delete(c.Request.Context(), tenantID, c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *DealHandlers) Share(c *gin.Context) {
	tenantID, ok := requestTenant(c)
	if !ok {
		return
	}

	var req ShareRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	deal, err := h.DealService.Share(c.Request.Context(), tenantID, c.Param("id"), req.UserIDs)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, deal)
}

func (h *DealHandlers) Assign(c *gin.Context) {
	tenantID, ok := requestTenant(c)
	if !ok {
		return
	}

	var req AssignRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	deal, err := h.DealService.Assign(c.Request.Context(), tenantID, c.Param("id"), req.OwnerID)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, deal)
}

func (h *DealHandlers) Export(c *gin.Context) {
	tenantID, ok := requestTenant(c)
	if !ok {
		return
	}

	data, err := h.DealService.ExportCSV(c.Request.Context(), tenantID)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="deals.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
