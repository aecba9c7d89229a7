package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tidescale/crmhub/internal/objects"
	"github.com/tidescale/crmhub/internal/server/biz"
	"github.com/tidescale/crmhub/internal/tracing"
)

// JSONError returns a JSON error response and adds the error to gin context
// for access logging.
func JSONError(c *gin.Context, status int, err error) {
	_ = c.Error(err)

	requestID, _ := tracing.GetRequestID(c.Request.Context())

	c.JSON(status, objects.ErrorResponse{
		Error: objects.Error{
			Type:      http.StatusText(status),
			Message:   err.Error(),
			RequestID: requestID,
		},
	})
}

// ServiceError maps service errors onto HTTP statuses.
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, biz.ErrNotFound):
		JSONError(c, http.StatusNotFound, err)
	case errors.Is(err, biz.ErrTenantRequired):
		JSONError(c, http.StatusBadRequest, err)
	default:
		JSONError(c, http.StatusInternalServerError, err)
	}
}
