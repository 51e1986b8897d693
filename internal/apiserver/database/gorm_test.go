package database

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/amoylab/tenantly/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTenant(t *testing.T, s *Store, slug string) *Tenant {
	t.Helper()
	tenant := &Tenant{Slug: slug, Name: slug}
	require.NoError(t, s.CreateTenant(context.Background(), tenant))
	return tenant
}

func TestStore_Tenants(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acme := &Tenant{Slug: "  ACME ", Name: "Acme Corp", Theme: Theme{Primary: "#e11d48"}, Brand: Brand{Tagline: "Roadrunner Ready"}}
	require.NoError(t, s.CreateTenant(ctx, acme))
	assert.Equal(t, "acme", acme.Slug)
	assert.NotEmpty(t, acme.ID)

	got, err := s.GetTenantBySlug(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, acme.ID, got.ID)
	assert.Equal(t, "#e11d48", got.Theme.Primary)
	assert.Equal(t, "Roadrunner Ready", got.Brand.Tagline)

	byID, err := s.GetTenant(ctx, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme", byID.Slug)

	err = s.CreateTenant(ctx, &Tenant{Slug: "acme", Name: "Other"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = s.GetTenantBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	createTenant(t, s, "globex")
	all, err := s.ListTenants(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "acme", all[0].Slug)
	assert.Equal(t, "globex", all[1].Slug)
}

func TestStore_ResourceIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	acme := createTenant(t, s, "acme")
	globex := createTenant(t, s, "globex")

	doc := &Resource{Title: "Acme Doc"}
	plan := &Resource{Title: "Acme Plan"}
	require.NoError(t, s.CreateResource(ctx, acme.ID, doc))
	require.NoError(t, s.CreateResource(ctx, acme.ID, plan))
	require.NoError(t, s.CreateResource(ctx, globex.ID, &Resource{Title: "Globex Handbook"}))
	assert.Equal(t, acme.ID, doc.TenantID)
	assert.False(t, doc.CreatedAt.IsZero())

	list, err := s.ListResources(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acme Plan", list[0].Title)
	assert.Equal(t, "Acme Doc", list[1].Title)

	list, err = s.ListResources(ctx, globex.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Globex Handbook", list[0].Title)

	// cross-tenant reads and writes look exactly like absent records
	_, err = s.GetResource(ctx, globex.ID, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	title := "hijacked"
	_, err = s.UpdateResource(ctx, globex.ID, doc.ID, ResourceUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteResource(ctx, globex.ID, doc.ID), ErrNotFound)

	got, err := s.GetResource(ctx, acme.ID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Doc", got.Title)

	updated, err := s.UpdateResource(ctx, acme.ID, doc.ID, ResourceUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "hijacked", updated.Title)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	require.NoError(t, s.DeleteResource(ctx, acme.ID, doc.ID))
	_, err = s.GetResource(ctx, acme.ID, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RequiresTenantID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ListResources(ctx, "")
	assert.ErrorIs(t, err, ErrTenantScope)
	_, err = s.GetUser(ctx, "", "x")
	assert.ErrorIs(t, err, ErrTenantScope)
	assert.ErrorIs(t, s.CreateResource(ctx, "", &Resource{Title: "x"}), ErrTenantScope)
	assert.ErrorIs(t, s.CreateUser(ctx, "", &User{Email: "a@b.c"}), ErrTenantScope)
	assert.ErrorIs(t, s.DeleteUser(ctx, "", "x"), ErrTenantScope)
}

func TestStore_Users(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	acme := createTenant(t, s, "acme")
	globex := createTenant(t, s, "globex")

	alice := &User{Email: " Alice@Acme.com ", Name: "Alice", PasswordHash: "h"}
	require.NoError(t, s.CreateUser(ctx, acme.ID, alice))
	assert.Equal(t, "alice@acme.com", alice.Email)
	assert.Equal(t, RoleMember, alice.Role)

	// same email is fine in another tenant, not in the same one
	require.NoError(t, s.CreateUser(ctx, globex.ID, &User{Email: "alice@acme.com", Name: "Other", PasswordHash: "h"}))
	err := s.CreateUser(ctx, acme.ID, &User{Email: "ALICE@acme.com", Name: "Dup", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrDuplicate)

	byEmail, err := s.GetUserByEmail(ctx, acme.ID, "ALICE@ACME.COM")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	_, err = s.GetUser(ctx, globex.ID, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	bob := &User{Email: "bob@acme.com", Name: "Bob", PasswordHash: "h", Role: RoleAdmin}
	require.NoError(t, s.CreateUser(ctx, acme.ID, bob))

	users, err := s.ListUsers(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob@acme.com", users[0].Email)

	name, email, role := "Alice A.", "NEW@acme.com", RoleAdmin
	updated, err := s.UpdateUser(ctx, acme.ID, alice.ID, UserUpdate{Name: &name, Email: &email, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", updated.Name)
	assert.Equal(t, "new@acme.com", updated.Email)
	assert.Equal(t, RoleAdmin, updated.Role)

	taken := "bob@acme.com"
	_, err = s.UpdateUser(ctx, acme.ID, alice.ID, UserUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = s.UpdateUser(ctx, globex.ID, alice.ID, UserUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteUser(ctx, globex.ID, alice.ID), ErrNotFound)

	require.NoError(t, s.DeleteUser(ctx, acme.ID, alice.ID))
	assert.ErrorIs(t, s.DeleteUser(ctx, acme.ID, alice.ID), ErrNotFound)
}

func TestStore_TransactionRollback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(ctx context.Context) error {
		require.NotNil(t, TransactionFromContext(ctx))
		require.NoError(t, s.CreateTenant(ctx, &Tenant{Slug: "acme", Name: "Acme"}))
		// nested calls join the outer transaction
		return s.Transaction(ctx, func(ctx context.Context) error { return boom })
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.GetTenantBySlug(ctx, "acme")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Ping(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "acme", NormalizeSlug("  AcMe "))
	assert.Equal(t, "a@b.com", NormalizeEmail(" A@B.com"))
}

func TestStore_ListOrderBreaksTimestampTies(t *testing.T) {
	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := NewSQLite(&config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"}, WithClock(func() time.Time { return frozen }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()
	tenant := createTenant(t, s, "acme")

	var resIDs, userIDs []string
	for _, title := range []string{"a", "b", "c", "d"} {
		res := &Resource{Title: title}
		require.NoError(t, s.CreateResource(ctx, tenant.ID, res))
		resIDs = append(resIDs, res.ID)

		user := &User{Email: title + "@acme.com", Name: title, PasswordHash: "x"}
		require.NoError(t, s.CreateUser(ctx, tenant.ID, user))
		userIDs = append(userIDs, user.ID)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(resIDs)))
	sort.Sort(sort.Reverse(sort.StringSlice(userIDs)))

	resources, err := s.ListResources(ctx, tenant.ID)
	require.NoError(t, err)
	var gotRes []string
	for _, r := range resources {
		gotRes = append(gotRes, r.ID)
	}
	assert.Equal(t, resIDs, gotRes)

	users, err := s.ListUsers(ctx, tenant.ID)
	require.NoError(t, err)
	var gotUsers []string
	for _, u := range users {
		gotUsers = append(gotUsers, u.ID)
	}
	assert.Equal(t, userIDs, gotUsers)
}
