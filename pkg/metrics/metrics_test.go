package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amoylab/tenantly/internal/common/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(config.MetricsConfig{Namespace: "tenantly_test"})

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpReqCnt.WithLabelValues("GET", "/api/health", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "tenantly_test_http_requests_total")
}

func TestDomainCounters(t *testing.T) {
	m := New(config.MetricsConfig{Namespace: "tenantly_test"})
	m.TenantResolved("path", "found")
	m.TenantResolved("path", "found")
	m.AuthAttempt("login", "invalid_credentials")
	m.CacheLookup("l1", true)
	m.CacheLookup("l1", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.tenantResolve.WithLabelValues("path", "found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authAttempts.WithLabelValues("login", "invalid_credentials")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("l1", "miss")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.TenantResolved("header", "missing")
		m.AuthAttempt("register", "ok")
		m.CacheLookup("l2", true)
	})
}
