package handler

import (
	"net/http"

	"github.com/amoylab/tenantly/internal/apiserver/reqctx"
	"github.com/amoylab/tenantly/internal/common/dto"
	"github.com/amoylab/tenantly/internal/i18n"

	"github.com/gin-gonic/gin"
)

// CurrentTenant describes the resolved tenant
func (h *Handler) CurrentTenant(c *gin.Context) {
	t := reqctx.Tenant(c.Request.Context())
	if t == nil {
		i18n.RespondWithError(c, i18n.ErrTenantNotResolved)
		return
	}
	c.JSON(http.StatusOK, dto.TenantResponse{
		Name:  t.Name,
		Slug:  t.Slug,
		Brand: t.Brand,
		Theme: t.Theme,
	})
}

// ListTenants handles listing all tenants
func (h *Handler) ListTenants(c *gin.Context) {
	tenants, err := h.tenants.List(c.Request.Context())
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	out := make([]dto.TenantSummary, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, dto.TenantSummary{ID: t.ID, Name: t.Name, Slug: t.Slug, Brand: t.Brand})
	}
	c.JSON(http.StatusOK, out)
}
