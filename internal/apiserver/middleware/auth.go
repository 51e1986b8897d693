package middleware

import (
	"context"
	"strings"

	"github.com/amoylab/tenantly/internal/apiserver/database"
	"github.com/amoylab/tenantly/internal/apiserver/guard"
	"github.com/amoylab/tenantly/internal/apiserver/reqctx"
	"github.com/amoylab/tenantly/internal/common/cnst"
	"github.com/amoylab/tenantly/internal/i18n"

	"github.com/gin-gonic/gin"
)

// UserResolver maps a bearer token to its user and tenant
type UserResolver interface {
	ResolveUser(ctx context.Context, token string, resolved *database.Tenant) (*database.User, *database.Tenant, error)
}

// TokenFromRequest returns the bearer token, falling back to the session cookie
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if h := c.GetHeader(cnst.HeaderAuthorize); strings.HasPrefix(h, cnst.BearerPrefix) {
		if tok := strings.TrimSpace(strings.TrimPrefix(h, cnst.BearerPrefix)); tok != "" {
			return tok
		}
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

// Auth attaches the token's user to the RequestContext. The resolved tenant is
// left as is; a request without a tenant signal stays tenantless. With required false,
// requests without a token pass through anonymously. A token that is present
// but invalid, or bound to another tenant, is always rejected.
func Auth(users UserResolver, cookieName string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c, cookieName)
		if token == "" {
			if required {
				i18n.RespondWithError(c, i18n.ErrAuthRequired)
				return
			}
			c.Next()
			return
		}

		ctx := c.Request.Context()
		user, _, err := users.ResolveUser(ctx, token, reqctx.Tenant(ctx))
		if err != nil {
			i18n.RespondWithError(c, err)
			return
		}
		c.Request = c.Request.WithContext(reqctx.WithUser(ctx, user))
		c.Next()
	}
}

// RequireRole aborts unless the authenticated user holds role in the resolved tenant
func RequireRole(role database.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := guard.Authorize(reqctx.FromContext(c.Request.Context()), role); err != nil {
			i18n.RespondWithError(c, err)
			return
		}
		c.Next()
	}
}
