package middleware

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/tidescale/crmhub/internal/sanitize"
)

// WithSanitizer neutralizes executable markup in the request body, query and
// path parameters before any later stage reads them. It runs first in the
// pipeline so no tenant or authorization decision ever sees raw
// attacker-controlled strings.
func WithSanitizer(sanitizer *sanitize.Sanitizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := sanitizeRequest(c, sanitizer)
		if err != nil {
			AbortWithError(c, http.StatusBadRequest, err)
			return
		}

		c.Next()
	}
}

// sanitizeRequest cleans all untrusted containers in place. A traversal
// failure of any kind becomes ErrInvalidInput: the request is rejected rather
// than passed on half-cleaned.
func sanitizeRequest(c *gin.Context, sanitizer *sanitize.Sanitizer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", sanitize.ErrInvalidInput, r)
		}
	}()

	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		body, readErr := io.ReadAll(c.Request.Body)
		if readErr != nil {
			return fmt.Errorf("%w: %v", sanitize.ErrInvalidInput, readErr)
		}

		if len(body) > 0 {
			cleaned, sanErr := sanitizer.Bytes(body)
			if sanErr != nil {
				return sanErr
			}

			c.Request.Body = io.NopCloser(bytes.NewReader(cleaned))
			c.Request.ContentLength = int64(len(cleaned))
		} else {
			c.Request.Body = io.NopCloser(bytes.NewReader(nil))
		}
	}

	if c.Request.URL.RawQuery != "" {
		query := c.Request.URL.Query()
		c.Request.URL.RawQuery = url.Values(sanitizer.Values(query)).Encode()
	}

	for i, param := range c.Params {
		cleaned := sanitizer.Value(param.Value)
		if value, ok := cleaned.(string); ok {
			c.Params[i].Value = value
		}
	}

	return nil
}
