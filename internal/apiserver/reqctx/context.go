// Package reqctx carries the resolved tenant and the authenticated user of a request.
package reqctx

import (
	"context"

	"github.com/amoylab/tenantly/internal/apiserver/database"
)

// RequestContext is built once per request and never mutated.
// Tenant is nil when no tenant was resolved. User is nil for anonymous requests.
type RequestContext struct {
	Tenant *database.Tenant
	User   *database.User
}

type ctxKey struct{}

// WithTenant returns a context with a fresh RequestContext holding tenant
func WithTenant(ctx context.Context, tenant *database.Tenant) context.Context {
	return context.WithValue(ctx, ctxKey{}, &RequestContext{Tenant: tenant})
}

// WithUser returns a context whose RequestContext is a copy of the current one with user set
func WithUser(ctx context.Context, user *database.User) context.Context {
	next := RequestContext{User: user}
	if cur := FromContext(ctx); cur != nil {
		next.Tenant = cur.Tenant
	}
	return context.WithValue(ctx, ctxKey{}, &next)
}

// FromContext returns the RequestContext stored in ctx, or nil
func FromContext(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(ctxKey{}).(*RequestContext)
	return rc
}

// Tenant returns the resolved tenant, or nil
func Tenant(ctx context.Context) *database.Tenant {
	if rc := FromContext(ctx); rc != nil {
		return rc.Tenant
	}
	return nil
}

// User returns the authenticated user, or nil
func User(ctx context.Context) *database.User {
	if rc := FromContext(ctx); rc != nil {
		return rc.User
	}
	return nil
}
