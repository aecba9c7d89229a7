package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/tidescale/crmhub/internal/tracing"
)

func newTracingRouter(config tracing.Config) (*gin.Engine, *struct{ traceID, requestID string }) {
	gin.SetMode(gin.TestMode)

	captured := &struct{ traceID, requestID string }{}

	router := gin.New()
	router.Use(WithLoggingTracing(config))
	router.POST("/", func(c *gin.Context) {
		ctx := c.Request.Context()
		captured.traceID, _ = tracing.GetTraceID(ctx)
		captured.requestID, _ = tracing.GetRequestID(ctx)
		c.Status(http.StatusOK)
	})

	return router, captured
}

func TestWithLoggingTracing_CallerTraceID(t *testing.T) {
	router, captured := newTracingRouter(tracing.Config{})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("CH-Trace-Id", "trace-from-caller")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, "trace-from-caller", captured.traceID)
	require.NotEmpty(t, captured.requestID)
	require.Equal(t, captured.requestID, w.Header().Get("CH-Request-Id"))
}

func TestWithLoggingTracing_GeneratedTraceID(t *testing.T) {
	router, captured := newTracingRouter(tracing.Config{})

	req := httptest.NewRequest(http.MethodPost, "/", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.True(t, strings.HasPrefix(captured.traceID, "ch-"))
	require.True(t, strings.HasPrefix(captured.requestID, "req-"))
}

func TestWithLoggingTracing_ExtraTraceHeader(t *testing.T) {
	router, captured := newTracingRouter(tracing.Config{
		ExtraTraceHeaders: []string{"X-Correlation-Id"},
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Correlation-Id", "corr-42")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, "corr-42", captured.traceID)
}

func TestWithLoggingTracing_BodyTraceField(t *testing.T) {
	router, captured := newTracingRouter(tracing.Config{
		ExtraTraceBodyFields: []string{"metadata.trace_id"},
	})

	body := `{"metadata":{"trace_id":"trace-from-body"},"name":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, "trace-from-body", captured.traceID)
}
