package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/amoylab/tenantly/internal/common/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry      *prometheus.Registry
	httpReqCnt    *prometheus.CounterVec
	httpDur       *prometheus.HistogramVec
	httpInfl      *prometheus.GaugeVec
	tenantResolve *prometheus.CounterVec
	authAttempts  *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: buckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	tenantResolve := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "tenant_resolutions_total"}, []string{"source", "outcome"})
	authAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "auth_attempts_total"}, []string{"op", "outcome"})
	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "tenant_cache_lookups_total"}, []string{"layer", "result"})
	r.MustRegister(tenantResolve, authAttempts, cacheLookups)

	return &Metrics{
		registry:      r,
		httpReqCnt:    httpReqCnt,
		httpDur:       httpDur,
		httpInfl:      httpInfl,
		tenantResolve: tenantResolve,
		authAttempts:  authAttempts,
		cacheLookups:  cacheLookups,
	}
}

// TenantResolved counts a tenant resolution by identifier source and outcome
func (m *Metrics) TenantResolved(source, outcome string) {
	if m == nil {
		return
	}
	m.tenantResolve.WithLabelValues(source, outcome).Inc()
}

// AuthAttempt counts a register/login attempt
func (m *Metrics) AuthAttempt(op, outcome string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(op, outcome).Inc()
}

// CacheLookup counts a tenant cache lookup per layer
func (m *Metrics) CacheLookup(layer string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(layer, result).Inc()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
