package guard

import (
	"testing"

	"github.com/amoylab/tenantly/internal/apiserver/database"
	"github.com/amoylab/tenantly/internal/apiserver/reqctx"
	"github.com/amoylab/tenantly/internal/i18n"

	"github.com/stretchr/testify/assert"
)

var (
	acme   = &database.Tenant{ID: "t-acme", Slug: "acme"}
	admin  = &database.User{ID: "u-admin", TenantID: "t-acme", Role: database.RoleAdmin}
	member = &database.User{ID: "u-member", TenantID: "t-acme", Role: database.RoleMember}
)

func rc(user *database.User) *reqctx.RequestContext {
	return &reqctx.RequestContext{Tenant: acme, User: user}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		rc       *reqctx.RequestContext
		required database.Role
		want     error
	}{
		{"nil context", nil, database.RoleMember, i18n.ErrTenantRequired},
		{"no tenant", &reqctx.RequestContext{User: member}, database.RoleMember, i18n.ErrTenantRequired},
		{"anonymous", rc(nil), database.RoleMember, i18n.ErrAuthRequired},
		{"member", rc(member), database.RoleMember, nil},
		{"member needs admin", rc(member), database.RoleAdmin, i18n.ErrForbidden},
		{"admin", rc(admin), database.RoleAdmin, nil},
		{"foreign user", rc(&database.User{ID: "u-x", TenantID: "t-globex", Role: database.RoleAdmin}), database.RoleMember, i18n.ErrTenantMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.rc, tt.required)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthorizeUserRead(t *testing.T) {
	assert.NoError(t, AuthorizeUserRead(rc(member), member.ID))
	assert.NoError(t, AuthorizeUserRead(rc(admin), member.ID))
	assert.ErrorIs(t, AuthorizeUserRead(rc(member), admin.ID), i18n.ErrForbidden)
	assert.ErrorIs(t, AuthorizeUserRead(rc(nil), member.ID), i18n.ErrAuthRequired)
}

func TestAuthorizeUserUpdate(t *testing.T) {
	name := "New Name"
	role := database.RoleAdmin

	assert.NoError(t, AuthorizeUserUpdate(rc(member), member.ID, database.UserUpdate{Name: &name}))
	assert.NoError(t, AuthorizeUserUpdate(rc(admin), member.ID, database.UserUpdate{Role: &role}))

	err := AuthorizeUserUpdate(rc(member), admin.ID, database.UserUpdate{Role: &role})
	assert.ErrorIs(t, err, i18n.ErrForbidden)

	err = AuthorizeUserUpdate(rc(member), admin.ID, database.UserUpdate{Name: &name})
	assert.ErrorIs(t, err, i18n.ErrForbidden)

	err = AuthorizeUserUpdate(rc(member), member.ID, database.UserUpdate{Role: &role})
	assert.ErrorIs(t, err, i18n.ErrRoleChangeDenied)
	assert.Equal(t, i18n.KindForbidden, i18n.KindOf(err))
}

func TestAuthorizeUserDelete(t *testing.T) {
	assert.ErrorIs(t, AuthorizeUserDelete(rc(admin), admin.ID), i18n.ErrSelfDeleteDenied)
	assert.ErrorIs(t, AuthorizeUserDelete(rc(member), member.ID), i18n.ErrSelfDeleteDenied)
	assert.ErrorIs(t, AuthorizeUserDelete(rc(member), admin.ID), i18n.ErrForbidden)
	assert.NoError(t, AuthorizeUserDelete(rc(admin), member.ID))
	assert.ErrorIs(t, AuthorizeUserDelete(rc(nil), member.ID), i18n.ErrAuthRequired)
}
