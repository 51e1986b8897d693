// Package identity registers and authenticates tenant users and issues their tokens.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/amoylab/tenantly/internal/apiserver/database"
	"github.com/amoylab/tenantly/internal/auth/jwt"
	"github.com/amoylab/tenantly/internal/i18n"
	"github.com/amoylab/tenantly/pkg/metrics"
	"github.com/amoylab/tenantly/pkg/trace"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const dummyPassword = "tenantly-timing-equalizer"

// Provider implements registration, login and token verification
type Provider struct {
	db      database.Database
	tokens  *jwt.Service
	metrics *metrics.Metrics
	logger  *zap.Logger
	cost    int

	dummyOnce sync.Once
	dummyHash []byte
}

// Option customizes a Provider
type Option func(*Provider)

// WithBcryptCost overrides bcrypt.DefaultCost
func WithBcryptCost(cost int) Option {
	return func(p *Provider) { p.cost = cost }
}

// WithMetrics records auth attempts on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Provider) { p.metrics = m }
}

// NewProvider creates a Provider
func NewProvider(db database.Database, tokens *jwt.Service, logger *zap.Logger, opts ...Option) *Provider {
	p := &Provider{
		db:     db,
		tokens: tokens,
		logger: logger.Named("identity"),
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HashPassword returns the bcrypt hash of password.
// Passwords longer than bcrypt accepts fail with PasswordTooLong.
func (p *Provider) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", i18n.ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// IssueToken signs a token bound to the user and its tenant
func (p *Provider) IssueToken(user *database.User) (string, error) {
	return p.tokens.GenerateToken(user.ID, user.TenantID, string(user.Role))
}

// VerifyToken validates token and returns its claims, or InvalidToken
func (p *Provider) VerifyToken(token string) (*jwt.Claims, error) {
	claims, err := p.tokens.ValidateToken(token)
	if err != nil {
		p.logger.Debug("token rejected", zap.Error(err))
		return nil, i18n.ErrInvalidToken
	}
	return claims, nil
}

// Authenticate checks email and password against the users of tenant.
// Unknown emails and wrong passwords fail the same way and take comparable time.
func (p *Provider) Authenticate(ctx context.Context, tenant *database.Tenant, email, password string) (*database.User, error) {
	if tenant == nil {
		return nil, i18n.ErrTenantRequired
	}
	email = database.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, i18n.ErrLoginFieldsRequired
	}

	span := trace.Tracer("identity").Start(ctx, "identity.authenticate").
		WithAttrs(attribute.String("tenant.id", tenant.ID))
	defer span.End()

	user, err := p.db.GetUserByEmail(span.Ctx, tenant.ID, email)
	switch {
	case errors.Is(err, database.ErrNotFound):
		_ = bcrypt.CompareHashAndPassword(p.dummy(), []byte(password))
		p.loginFailed(tenant, "unknown_user")
		return nil, i18n.ErrInvalidCredentials
	case err != nil:
		span.RecordError(err)
		p.metrics.AuthAttempt("login", "error")
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		p.loginFailed(tenant, "bad_password")
		return nil, i18n.ErrInvalidCredentials
	}

	p.metrics.AuthAttempt("login", "success")
	p.logger.Info("user logged in", zap.String("tenant", tenant.Slug), zap.String("user_id", user.ID))
	return user, nil
}

func (p *Provider) loginFailed(tenant *database.Tenant, reason string) {
	p.metrics.AuthAttempt("login", "failure")
	p.logger.Warn("login failed", zap.String("tenant", tenant.Slug), zap.String("reason", reason))
}

func (p *Provider) dummy() []byte {
	p.dummyOnce.Do(func() {
		p.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(dummyPassword), p.cost)
	})
	return p.dummyHash
}

// NewUser describes an account to create
type NewUser struct {
	Email    string
	Password string
	Name     string
	Role     database.Role
}

// Register creates a member account in tenant
func (p *Provider) Register(ctx context.Context, tenant *database.Tenant, email, password, name string) (*database.User, error) {
	return p.CreateUser(ctx, tenant, NewUser{Email: email, Password: password, Name: name, Role: database.RoleMember})
}

// CreateUser creates an account with an explicit role. An empty role means member.
func (p *Provider) CreateUser(ctx context.Context, tenant *database.Tenant, in NewUser) (*database.User, error) {
	if tenant == nil {
		return nil, i18n.ErrTenantRequired
	}
	email := database.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" || name == "" {
		return nil, i18n.ErrRegisterFieldsRequired
	}
	role := in.Role
	if role == "" {
		role = database.RoleMember
	}
	if !role.Valid() {
		return nil, i18n.ErrInvalidRole
	}

	span := trace.Tracer("identity").Start(ctx, "identity.register").
		WithAttrs(attribute.String("tenant.id", tenant.ID), attribute.String("user.role", string(role)))
	defer span.End()

	hash, err := p.HashPassword(in.Password)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	user := &database.User{Email: email, Name: name, Role: role, PasswordHash: hash}
	if err := p.db.CreateUser(span.Ctx, tenant.ID, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			p.metrics.AuthAttempt("register", "duplicate")
			return nil, i18n.ErrUserExists
		}
		span.RecordError(err)
		p.metrics.AuthAttempt("register", "error")
		return nil, err
	}

	p.metrics.AuthAttempt("register", "success")
	p.logger.Info("user registered", zap.String("tenant", tenant.Slug), zap.String("user_id", user.ID))
	return user, nil
}

// ResolveUser maps a token to its user and tenant. When resolved is non-nil the
// token must belong to it; the check runs before any store access.
func (p *Provider) ResolveUser(ctx context.Context, token string, resolved *database.Tenant) (*database.User, *database.Tenant, error) {
	claims, err := p.VerifyToken(token)
	if err != nil {
		return nil, nil, err
	}
	if resolved != nil && resolved.ID != claims.TenantID {
		p.logger.Warn("token used outside its tenant",
			zap.String("tenant", resolved.Slug),
			zap.String("token_tenant_id", claims.TenantID),
		)
		return nil, nil, i18n.ErrTenantMismatch
	}

	user, err := p.db.GetUser(ctx, claims.TenantID, claims.UserID())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil, i18n.ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("load token user: %w", err)
	}

	tenant := resolved
	if tenant == nil {
		tenant, err = p.db.GetTenant(ctx, claims.TenantID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, nil, i18n.ErrInvalidToken
			}
			return nil, nil, fmt.Errorf("load token tenant: %w", err)
		}
	}
	return user, tenant, nil
}
