// Package guard decides whether the caller of a request may perform an operation.
package guard

import (
	"github.com/amoylab/tenantly/internal/apiserver/database"
	"github.com/amoylab/tenantly/internal/apiserver/reqctx"
	"github.com/amoylab/tenantly/internal/i18n"
)

// Authorize requires a resolved tenant, an authenticated user of that tenant
// and, for RoleAdmin, an admin caller.
func Authorize(rc *reqctx.RequestContext, required database.Role) error {
	if rc == nil || rc.Tenant == nil {
		return i18n.ErrTenantRequired
	}
	if rc.User == nil {
		return i18n.ErrAuthRequired
	}
	if rc.User.TenantID != rc.Tenant.ID {
		return i18n.ErrTenantMismatch
	}
	if required == database.RoleAdmin && rc.User.Role != database.RoleAdmin {
		return i18n.ErrForbidden
	}
	return nil
}

func isAdmin(rc *reqctx.RequestContext) bool {
	return rc.User.Role == database.RoleAdmin
}

// AuthorizeUserRead allows admins and the user itself
func AuthorizeUserRead(rc *reqctx.RequestContext, targetID string) error {
	if err := Authorize(rc, database.RoleMember); err != nil {
		return err
	}
	if !isAdmin(rc) && rc.User.ID != targetID {
		return i18n.ErrForbidden
	}
	return nil
}

// AuthorizeUserUpdate allows admins, and members editing themselves without touching their role
func AuthorizeUserUpdate(rc *reqctx.RequestContext, targetID string, changes database.UserUpdate) error {
	if err := Authorize(rc, database.RoleMember); err != nil {
		return err
	}
	if isAdmin(rc) {
		return nil
	}
	if rc.User.ID != targetID {
		return i18n.ErrForbidden
	}
	if changes.Role != nil {
		return i18n.ErrRoleChangeDenied
	}
	return nil
}

// AuthorizeUserDelete allows admins to delete anyone but themselves
func AuthorizeUserDelete(rc *reqctx.RequestContext, targetID string) error {
	if err := Authorize(rc, database.RoleMember); err != nil {
		return err
	}
	if rc.User.ID == targetID {
		return i18n.ErrSelfDeleteDenied
	}
	if !isAdmin(rc) {
		return i18n.ErrForbidden
	}
	return nil
}
