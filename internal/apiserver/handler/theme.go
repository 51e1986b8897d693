package handler

import (
	"net/http"

	"github.com/amoylab/tenantly/internal/apiserver/reqctx"
	"github.com/amoylab/tenantly/internal/apiserver/theme"
	"github.com/amoylab/tenantly/internal/i18n"

	"github.com/gin-gonic/gin"
)

// CurrentThemeCSS renders the resolved tenant's colors, or the defaults without a tenant
func (h *Handler) CurrentThemeCSS(c *gin.Context) {
	css, err := h.theme.Render(reqctx.Tenant(c.Request.Context()))
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	c.Header("Cache-Control", theme.CacheControl)
	c.Data(http.StatusOK, theme.ContentType, css)
}
