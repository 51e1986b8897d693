package tenancy

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/amoylab/tenantly/internal/apiserver/cache"
	"github.com/amoylab/tenantly/internal/apiserver/database"
	"github.com/amoylab/tenantly/internal/i18n"

	"go.uber.org/zap"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Directory maps tenant slugs to tenant records, reading through the tenant cache
type Directory struct {
	db     database.Database
	cache  *cache.MultiLayerCache
	logger *zap.Logger
}

// NewDirectory creates a Directory. A nil cache disables caching.
func NewDirectory(db database.Database, c *cache.MultiLayerCache, logger *zap.Logger) *Directory {
	return &Directory{
		db:     db,
		cache:  c,
		logger: logger.Named("tenancy.directory"),
	}
}

func cacheKey(slug string) string {
	return "tenant:slug:" + slug
}

// ValidSlug reports whether slug is a normalized, URL-safe tenant slug
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// Lookup returns the tenant for slug, or database.ErrNotFound.
// Only hits are cached.
func (d *Directory) Lookup(ctx context.Context, slug string) (*database.Tenant, error) {
	slug = database.NormalizeSlug(slug)
	if !ValidSlug(slug) {
		return nil, database.ErrNotFound
	}

	if d.cache != nil {
		var cached database.Tenant
		if d.cache.Get(ctx, cacheKey(slug), &cached) {
			return &cached, nil
		}
	}

	tenant, err := d.db.GetTenantBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if d.cache != nil {
		if err := d.cache.Set(ctx, cacheKey(slug), tenant); err != nil {
			d.logger.Warn("failed to cache tenant", zap.String("slug", slug), zap.Error(err))
		}
	}
	return tenant, nil
}

// Get returns the tenant with the given id
func (d *Directory) Get(ctx context.Context, id string) (*database.Tenant, error) {
	return d.db.GetTenant(ctx, id)
}

// Create registers a new tenant. The slug is normalized and must be unused.
func (d *Directory) Create(ctx context.Context, tenant *database.Tenant) error {
	tenant.Slug = database.NormalizeSlug(tenant.Slug)
	if !ValidSlug(tenant.Slug) {
		return i18n.ErrInvalidSlug
	}
	if strings.TrimSpace(tenant.Name) == "" {
		tenant.Name = tenant.Slug
	}

	if err := d.db.CreateTenant(ctx, tenant); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return i18n.ErrTenantExists.WithParam("Slug", tenant.Slug)
		}
		return fmt.Errorf("create tenant: %w", err)
	}

	if d.cache != nil {
		if err := d.cache.Delete(ctx, cacheKey(tenant.Slug)); err != nil {
			d.logger.Warn("failed to invalidate tenant cache", zap.String("slug", tenant.Slug), zap.Error(err))
		}
	}
	d.logger.Info("tenant created", zap.String("slug", tenant.Slug), zap.String("id", tenant.ID))
	return nil
}

// List returns all tenants ordered by slug
func (d *Directory) List(ctx context.Context) ([]*database.Tenant, error) {
	return d.db.ListTenants(ctx)
}
