package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeHash(pw string) (string, error) { return "hashed:" + pw, nil }

func TestSeed_DemoTenants(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	res, err := Seed(ctx, s, DemoTenants, "password123", fakeHash)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "globex"}, res.Created)
	assert.Empty(t, res.Skipped)

	acme, err := s.GetTenantBySlug(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "#e11d48", acme.Theme.Primary)

	resources, err := s.ListResources(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, resources, 2)
	assert.Equal(t, "Acme Roadmap", resources[0].Title)

	alice, err := s.GetUserByEmail(ctx, acme.ID, "alice@acme.com")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, alice.Role)
	assert.Equal(t, "hashed:password123", alice.PasswordHash)

	// second run is a no-op
	res, err = Seed(ctx, s, DemoTenants, "password123", fakeHash)
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.Equal(t, []string{"acme", "globex"}, res.Skipped)
}

func TestSeed_HashError(t *testing.T) {
	s := newTestStore(t)
	_, err := Seed(context.Background(), s, DemoTenants, "pw", func(string) (string, error) {
		return "", errors.New("no entropy")
	})
	assert.ErrorContains(t, err, "no entropy")
}
