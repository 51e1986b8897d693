package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Option customizes a Store
type Option func(*Store)

// WithClock replaces the timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for store diagnostics
func WithLogger(lg *zap.Logger) Option {
	return func(s *Store) { s.logger = lg.Named("database") }
}

// Store implements Database on top of gorm for every supported dialect
type Store struct {
	db     *gorm.DB
	now    func() time.Time
	logger *zap.Logger
}

var _ Database = (*Store)(nil)

// open connects and migrates. maxOpenConns is applied before migrating when positive.
func open(dialector gorm.Dialector, maxOpenConns int, opts ...Option) (*Store, error) {
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if maxOpenConns > 0 {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(maxOpenConns)
	}

	if err := gormDB.AutoMigrate(&Tenant{}, &User{}, &Resource{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s := &Store{
		db:     gormDB,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Transaction runs fn inside a transaction. Nested calls join the outer transaction.
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if TransactionFromContext(ctx) != nil {
		return fn(ctx)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ContextWithTransaction(ctx, tx))
	})
	if err != nil {
		s.logger.Warn("transaction rolled back", zap.Error(err))
	}
	return err
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

// CreateTenant stores a new tenant; the slug is normalized and must be unique
func (s *Store) CreateTenant(ctx context.Context, tenant *Tenant) error {
	tenant.Slug = NormalizeSlug(tenant.Slug)
	if tenant.ID == "" {
		tenant.ID = uuid.NewString()
	}
	now := s.stamp()
	tenant.CreatedAt, tenant.UpdatedAt = now, now
	if err := getDBFromContext(ctx, s.db).Create(tenant).Error; err != nil {
		return fmt.Errorf("create tenant %q: %w", tenant.Slug, translateError(err))
	}
	return nil
}

func (s *Store) GetTenant(ctx context.Context, id string) (*Tenant, error) {
	var tenant Tenant
	if err := getDBFromContext(ctx, s.db).Where("id = ?", id).First(&tenant).Error; err != nil {
		return nil, translateError(err)
	}
	return &tenant, nil
}

func (s *Store) GetTenantBySlug(ctx context.Context, slug string) (*Tenant, error) {
	var tenant Tenant
	if err := getDBFromContext(ctx, s.db).Where("slug = ?", NormalizeSlug(slug)).First(&tenant).Error; err != nil {
		return nil, translateError(err)
	}
	return &tenant, nil
}

func (s *Store) ListTenants(ctx context.Context) ([]*Tenant, error) {
	var tenants []*Tenant
	err := getDBFromContext(ctx, s.db).Order("slug asc").Find(&tenants).Error
	return tenants, translateError(err)
}

// scoped returns a query restricted to tenantID
func (s *Store) scoped(ctx context.Context, tenantID string) (*gorm.DB, error) {
	if tenantID == "" {
		return nil, ErrTenantScope
	}
	return getDBFromContext(ctx, s.db).Where("tenant_id = ?", tenantID), nil
}

func (s *Store) ListUsers(ctx context.Context, tenantID string) ([]*User, error) {
	q, err := s.scoped(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var users []*User
	err = q.Order("created_at desc, id desc").Find(&users).Error
	return users, translateError(err)
}

func (s *Store) GetUser(ctx context.Context, tenantID, id string) (*User, error) {
	q, err := s.scoped(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var user User
	if err := q.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, tenantID, email string) (*User, error) {
	q, err := s.scoped(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var user User
	if err := q.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// CreateUser stamps the user with tenantID, a fresh id and timestamps
func (s *Store) CreateUser(ctx context.Context, tenantID string, user *User) error {
	if tenantID == "" {
		return ErrTenantScope
	}
	user.ID = uuid.NewString()
	user.TenantID = tenantID
	user.Email = NormalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = RoleMember
	}
	now := s.stamp()
	user.CreatedAt, user.UpdatedAt = now, now
	if err := getDBFromContext(ctx, s.db).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", translateError(err))
	}
	return nil
}

// UpdateUser applies upd with a single statement filtered by id and tenant
func (s *Store) UpdateUser(ctx context.Context, tenantID, id string, upd UserUpdate) (*User, error) {
	q, err := s.scoped(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	cols := map[string]any{"updated_at": s.stamp()}
	if upd.Name != nil {
		cols["name"] = *upd.Name
	}
	if upd.Email != nil {
		cols["email"] = NormalizeEmail(*upd.Email)
	}
	if upd.Role != nil {
		cols["role"] = *upd.Role
	}
	if upd.PasswordHash != nil {
		cols["password_hash"] = *upd.PasswordHash
	}

	res := q.Model(&User{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return nil, fmt.Errorf("update user: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetUser(ctx, tenantID, id)
}

// DeleteUser removes the user with a single statement filtered by id and tenant
func (s *Store) DeleteUser(ctx context.Context, tenantID, id string) error {
	q, err := s.scoped(ctx, tenantID)
	if err != nil {
		return err
	}
	res := q.Where("id = ?", id).Delete(&User{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListResources(ctx context.Context, tenantID string) ([]*Resource, error) {
	q, err := s.scoped(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var resources []*Resource
	err = q.Order("created_at desc, id desc").Find(&resources).Error
	return resources, translateError(err)
}

func (s *Store) GetResource(ctx context.Context, tenantID, id string) (*Resource, error) {
	q, err := s.scoped(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var res Resource
	if err := q.Where("id = ?", id).First(&res).Error; err != nil {
		return nil, translateError(err)
	}
	return &res, nil
}

// CreateResource stamps the resource with tenantID, a fresh id and timestamps
func (s *Store) CreateResource(ctx context.Context, tenantID string, res *Resource) error {
	if tenantID == "" {
		return ErrTenantScope
	}
	res.ID = uuid.NewString()
	res.TenantID = tenantID
	now := s.stamp()
	res.CreatedAt, res.UpdatedAt = now, now
	if err := getDBFromContext(ctx, s.db).Create(res).Error; err != nil {
		return fmt.Errorf("create resource: %w", translateError(err))
	}
	return nil
}

// UpdateResource applies upd with a single statement filtered by id and tenant
func (s *Store) UpdateResource(ctx context.Context, tenantID, id string, upd ResourceUpdate) (*Resource, error) {
	q, err := s.scoped(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	cols := map[string]any{"updated_at": s.stamp()}
	if upd.Title != nil {
		cols["title"] = *upd.Title
	}
	if upd.Content != nil {
		cols["content"] = *upd.Content
	}

	res := q.Model(&Resource{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return nil, fmt.Errorf("update resource: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetResource(ctx, tenantID, id)
}

// DeleteResource removes the resource with a single statement filtered by id and tenant
func (s *Store) DeleteResource(ctx context.Context, tenantID, id string) error {
	q, err := s.scoped(ctx, tenantID)
	if err != nil {
		return err
	}
	res := q.Where("id = ?", id).Delete(&Resource{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// NormalizeSlug trims and lowercases a tenant slug
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

// NormalizeEmail trims and lowercases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
