package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/prometheus"
	"github.com/uwazilabs/haki-analytics/internal/testutil"
)

func newTestEngine(mws ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mws...)
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRequestLoggingLevels(t *testing.T) {
	logger := testutil.NewCaptureLogger()
	r := newTestEngine(RequestLogging(logger))

	get(r, "/ok")
	get(r, "/boom")

	assert.Equal(t, []string{"request completed"}, logger.MessagesAt("info"))
	assert.Equal(t, []string{"request failed"}, logger.MessagesAt("error"))
}

func TestRequestLoggingFields(t *testing.T) {
	logger := testutil.NewCaptureLogger()
	r := newTestEngine(RequestLogging(logger))

	get(r, "/ok")

	entries := logger.Entries()
	require.Len(t, entries, 1)

	byKey := make(map[string]interface{})
	for _, f := range entries[0].Fields {
		byKey[f.Key] = f.Value
	}
	assert.Equal(t, "GET", byKey["method"])
	assert.Equal(t, "/ok", byKey["path"])
	assert.Equal(t, http.StatusOK, byKey["status"])
}

func TestRequestMetricsDoesNotPanicWithNoop(t *testing.T) {
	r := newTestEngine(RequestMetrics(prometheus.NewNoopMetrics()))

	assert.Equal(t, http.StatusOK, get(r, "/ok").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/absent").Code)
}

func TestRecoveryConvertsPanic(t *testing.T) {
	logger := testutil.NewCaptureLogger()
	r := newTestEngine(Recovery(logger))

	w := get(r, "/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
	assert.Equal(t, []string{"panic recovered"}, logger.MessagesAt("error"))
}
