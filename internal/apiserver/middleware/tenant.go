package middleware

import (
	"github.com/amoylab/tenantly/internal/apiserver/reqctx"
	"github.com/amoylab/tenantly/internal/apiserver/tenancy"
	"github.com/amoylab/tenantly/internal/i18n"

	"github.com/gin-gonic/gin"
)

const ginTenantSourceKey = "tenantSource"

// Tenant resolves the tenant of the request and seeds its RequestContext.
// Requests without a tenant signal continue with an empty tenant.
func Tenant(resolver *tenancy.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, source, err := resolver.Resolve(c.Request.Context(), c.Request)
		if err != nil {
			i18n.RespondWithError(c, err)
			return
		}

		c.Request = c.Request.WithContext(reqctx.WithTenant(c.Request.Context(), tenant))
		c.Set(ginTenantSourceKey, string(source))
		c.Next()
	}
}

// RequireTenant aborts with TenantRequired when no tenant was resolved
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if reqctx.Tenant(c.Request.Context()) == nil {
			i18n.RespondWithError(c, i18n.ErrTenantRequired)
			return
		}
		c.Next()
	}
}
