package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/tidescale/crmhub/internal/sanitize"
)

func newSanitizeRouter(capture *string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(WithSanitizer(sanitize.New()))
	router.POST("/echo", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		*capture = string(body)
		c.Status(http.StatusOK)
	})
	router.GET("/query", func(c *gin.Context) {
		*capture = c.Query("name")
		c.Status(http.StatusOK)
	})

	return router
}

func TestWithSanitizer_Body(t *testing.T) {
	var captured string

	router := newSanitizeRouter(&captured)

	body := `{"name":"<script>alert(1)</script>Ada","notes":"<b>bold</b> text"}`
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Ada", gjson.Get(captured, "name").String())
	require.Equal(t, "bold text", gjson.Get(captured, "notes").String())
}

func TestWithSanitizer_ProtectedKeys(t *testing.T) {
	var captured string

	router := newSanitizeRouter(&captured)

	body := `{"password":"<secret>&value","name":"<i>Ada</i>"}`
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	// Credential material passes through untouched.
	require.Equal(t, "<secret>&value", gjson.Get(captured, "password").String())
	require.Equal(t, "Ada", gjson.Get(captured, "name").String())
}

func TestWithSanitizer_MalformedJSON(t *testing.T) {
	var captured string

	router := newSanitizeRouter(&captured)

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name": tr`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, captured)
}

func TestWithSanitizer_Query(t *testing.T) {
	var captured string

	router := newSanitizeRouter(&captured)

	req := httptest.NewRequest(http.MethodGet, "/query?name=%3Cscript%3Ealert(1)%3C%2Fscript%3EAda", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Ada", captured)
}

func TestWithSanitizer_EmptyBody(t *testing.T) {
	var captured string

	router := newSanitizeRouter(&captured)

	req := httptest.NewRequest(http.MethodPost, "/echo", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}
