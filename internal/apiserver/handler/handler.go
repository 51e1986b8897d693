package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/amoylab/tenantly/internal/apiserver/database"
	"github.com/amoylab/tenantly/internal/apiserver/identity"
	"github.com/amoylab/tenantly/internal/apiserver/reqctx"
	"github.com/amoylab/tenantly/internal/apiserver/tenancy"
	"github.com/amoylab/tenantly/internal/apiserver/theme"
	"github.com/amoylab/tenantly/internal/common/config"
	"github.com/amoylab/tenantly/internal/i18n"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the HTTP API
type Handler struct {
	db       database.Database
	tenants  *tenancy.Directory
	identity *identity.Provider
	theme    *theme.Renderer
	cfg      *config.APIServerConfig
	openapi  []byte
	logger   *zap.Logger
}

// Deps groups the collaborators of a Handler
type Deps struct {
	DB       database.Database
	Tenants  *tenancy.Directory
	Identity *identity.Provider
	Theme    *theme.Renderer
	Config   *config.APIServerConfig
	OpenAPI  []byte
	Logger   *zap.Logger
}

// NewHandler creates a new Handler
func NewHandler(d Deps) *Handler {
	return &Handler{
		db:       d.DB,
		tenants:  d.Tenants,
		identity: d.Identity,
		theme:    d.Theme,
		cfg:      d.Config,
		openapi:  d.OpenAPI,
		logger:   d.Logger.Named("handler"),
	}
}

// bindJSON decodes the request body into dst. An empty body leaves dst zeroed.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return i18n.ErrMalformedRequest
	}
	return nil
}

// tenantOf returns the resolved tenant or TenantRequired
func tenantOf(c *gin.Context) (*database.Tenant, error) {
	t := reqctx.Tenant(c.Request.Context())
	if t == nil {
		return nil, i18n.ErrTenantRequired
	}
	return t, nil
}

// setSessionCookie stores token in the http-only session cookie
func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cfg.Cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.JWT.Duration.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Cookie.Secure || h.cfg.Server.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cfg.Cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Cookie.Secure || h.cfg.Server.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}
