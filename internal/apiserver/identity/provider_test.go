package identity

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/amoylab/tenantly/internal/apiserver/database"
	"github.com/amoylab/tenantly/internal/auth/jwt"
	"github.com/amoylab/tenantly/internal/common/config"
	"github.com/amoylab/tenantly/internal/i18n"
	"github.com/amoylab/tenantly/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	db     *database.Store
	p      *Provider
	acme   *database.Tenant
	globex *database.Tenant
	m      *metrics.Metrics
	logs   *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewSQLite(&config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tokens, err := jwt.NewService(config.JWTConfig{SecretKey: "0123456789abcdef0123456789abcdef", Duration: time.Hour})
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	m := metrics.New(config.MetricsConfig{Namespace: "test"})
	p := NewProvider(db, tokens, zap.New(core), WithBcryptCost(bcrypt.MinCost), WithMetrics(m))

	acme := &database.Tenant{Slug: "acme", Name: "Acme"}
	globex := &database.Tenant{Slug: "globex", Name: "Globex"}
	require.NoError(t, db.CreateTenant(ctx, acme))
	require.NoError(t, db.CreateTenant(ctx, globex))
	return &fixture{db: db, p: p, acme: acme, globex: globex, m: m, logs: logs}
}

func TestRegisterThenAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.p.Register(ctx, f.acme, "  Alice@Acme.com ", "pw", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@acme.com", user.Email)
	assert.Equal(t, database.RoleMember, user.Role)
	assert.Equal(t, f.acme.ID, user.TenantID)

	stored, err := f.db.GetUser(ctx, f.acme.ID, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw")))

	got, err := f.p.Authenticate(ctx, f.acme, "ALICE@acme.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.p.Register(ctx, f.acme, "a@acme.com", "", "A")
	assert.ErrorIs(t, err, i18n.ErrRegisterFieldsRequired)
	_, err = f.p.Register(ctx, f.acme, "a@acme.com", "pw", "  ")
	assert.ErrorIs(t, err, i18n.ErrRegisterFieldsRequired)
	_, err = f.p.Register(ctx, nil, "a@acme.com", "pw", "A")
	assert.ErrorIs(t, err, i18n.ErrTenantRequired)
	_, err = f.p.CreateUser(ctx, f.acme, NewUser{Email: "a@acme.com", Password: "pw", Name: "A", Role: "owner"})
	assert.ErrorIs(t, err, i18n.ErrInvalidRole)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.p.HashPassword(strings.Repeat("p", 73))
	assert.ErrorIs(t, err, i18n.ErrPasswordTooLong)
	assert.Equal(t, i18n.KindValidationError, i18n.KindOf(err))

	_, err = f.p.Register(ctx, f.acme, "long@acme.com", strings.Repeat("p", 80), "Long")
	assert.ErrorIs(t, err, i18n.ErrPasswordTooLong)
	_, err = f.db.GetUserByEmail(ctx, f.acme.ID, "long@acme.com")
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = f.p.Register(ctx, f.acme, "edge@acme.com", strings.Repeat("p", 72), "Edge")
	assert.NoError(t, err)
}

func TestRegister_DuplicateIsPerTenant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.p.Register(ctx, f.acme, "sam@example.com", "pw", "Sam")
	require.NoError(t, err)
	_, err = f.p.Register(ctx, f.acme, "SAM@example.com", "pw2", "Sam again")
	assert.ErrorIs(t, err, i18n.ErrUserExists)
	assert.Equal(t, i18n.KindUserExists, i18n.KindOf(err))

	_, err = f.p.Register(ctx, f.globex, "sam@example.com", "pw", "Sam")
	assert.NoError(t, err)
}

func TestAuthenticate_FailuresLookAlike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.p.Register(ctx, f.acme, "alice@acme.com", "pw", "Alice")
	require.NoError(t, err)

	_, unknown := f.p.Authenticate(ctx, f.acme, "nobody@acme.com", "pw")
	_, wrong := f.p.Authenticate(ctx, f.acme, "alice@acme.com", "nope")
	_, otherTenant := f.p.Authenticate(ctx, f.globex, "alice@acme.com", "pw")

	for _, err := range []error{unknown, wrong, otherTenant} {
		assert.ErrorIs(t, err, i18n.ErrInvalidCredentials)
		assert.Equal(t, unknown.Error(), err.Error())
	}

	for _, entry := range f.logs.All() {
		for _, v := range entry.ContextMap() {
			assert.NotContains(t, fmt.Sprint(v), "@acme.com")
		}
	}

	assert.Equal(t, float64(3), counterValue(t, f.m, "test_auth_attempts_total", "login", "failure"))
}

func TestAuthenticate_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.p.Authenticate(context.Background(), f.acme, "", "pw")
	assert.ErrorIs(t, err, i18n.ErrLoginFieldsRequired)
	_, err = f.p.Authenticate(context.Background(), nil, "a@acme.com", "pw")
	assert.ErrorIs(t, err, i18n.ErrTenantRequired)
}

func TestResolveUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, err := f.p.Register(ctx, f.acme, "alice@acme.com", "pw", "Alice")
	require.NoError(t, err)
	token, err := f.p.IssueToken(alice)
	require.NoError(t, err)

	claims, err := f.p.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, claims.UserID())
	assert.Equal(t, f.acme.ID, claims.TenantID)

	t.Run("same tenant", func(t *testing.T) {
		user, tenant, err := f.p.ResolveUser(ctx, token, f.acme)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, user.ID)
		assert.Same(t, f.acme, tenant)
	})

	t.Run("no resolved tenant loads the token tenant", func(t *testing.T) {
		user, tenant, err := f.p.ResolveUser(ctx, token, nil)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, user.ID)
		assert.Equal(t, "acme", tenant.Slug)
	})

	t.Run("other tenant", func(t *testing.T) {
		_, _, err := f.p.ResolveUser(ctx, token, f.globex)
		assert.ErrorIs(t, err, i18n.ErrTenantMismatch)
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := f.p.ResolveUser(ctx, "garbage", f.acme)
		assert.ErrorIs(t, err, i18n.ErrInvalidToken)
	})

	t.Run("deleted user", func(t *testing.T) {
		require.NoError(t, f.db.DeleteUser(ctx, f.acme.ID, alice.ID))
		_, _, err := f.p.ResolveUser(ctx, token, f.acme)
		assert.ErrorIs(t, err, i18n.ErrInvalidToken)
	})
}

// counterValue returns the value of the counter series whose label values are exactly values
func counterValue(t *testing.T, m *metrics.Metrics, name string, values ...string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := metric.GetLabel()
			if len(labels) != len(values) {
				continue
			}
			match := true
			for i, l := range labels {
				if l.GetValue() != values[i] {
					match = false
				}
			}
			if match {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}
