package handler

import (
	"net/http"

	"github.com/amoylab/tenantly/internal/apiserver/reqctx"
	"github.com/amoylab/tenantly/internal/common/dto"
	"github.com/amoylab/tenantly/internal/i18n"
	"github.com/amoylab/tenantly/pkg/version"

	"github.com/gin-gonic/gin"
)

// Index lists the main endpoints
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, dto.IndexResponse{
		Message: "Multi-tenant SaaS API",
		Version: version.Get(),
		Endpoints: map[string]string{
			"health":    "/api/health",
			"tenants":   "/api/tenants",
			"tenant-me": "/api/tenants/me",
			"auth":      "/api/auth",
			"resources": "/api/resources",
			"users":     "/api/users",
			"theme":     "/api/themes/current.css",
			"openapi":   "/api/openapi.json",
		},
	})
}

// Health reports liveness and the resolved tenant
func (h *Handler) Health(c *gin.Context) {
	resp := dto.HealthResponse{Status: "ok"}
	if t := reqctx.Tenant(c.Request.Context()); t != nil {
		resp.Tenant = &t.Slug
	}
	c.JSON(http.StatusOK, resp)
}

// OpenAPI serves the API description
func (h *Handler) OpenAPI(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", h.openapi)
}

// NotFound answers unmatched routes
func (h *Handler) NotFound(c *gin.Context) {
	i18n.RespondWithError(c, i18n.ErrRouteNotFound)
}
