package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tidescale/crmhub/internal/objects"
	"github.com/tidescale/crmhub/internal/tracing"
)

// AbortWithError aborts the request with a JSON error response and adds the
// error to gin context for access logging. The response carries the request
// correlation id so client-reported failures can be traced.
func AbortWithError(c *gin.Context, status int, err error) {
	_ = c.Error(err)

	requestID, _ := tracing.GetRequestID(c.Request.Context())

	c.AbortWithStatusJSON(status, objects.ErrorResponse{
		Error: objects.Error{
			Type:      http.StatusText(status),
			Message:   err.Error(),
			RequestID: requestID,
		},
	})
}
