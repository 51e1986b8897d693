package database

import (
	"time"
)

// Role is a user's role within its tenant
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

// Theme holds the three tenant colors; empty values fall back to the configured defaults
type Theme struct {
	Primary    string `json:"primary" gorm:"type:varchar(32)"`
	Background string `json:"background" gorm:"type:varchar(32)"`
	Text       string `json:"text" gorm:"type:varchar(32)"`
}

// Brand is opaque presentation data
type Brand struct {
	LogoURL string `json:"logoUrl,omitempty" gorm:"type:text"`
	Tagline string `json:"tagline,omitempty" gorm:"type:varchar(255)"`
}

// Tenant represents an isolated customer organization
type Tenant struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Slug      string    `json:"slug" gorm:"type:varchar(63);not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Brand     Brand     `json:"brand" gorm:"embedded;embeddedPrefix:brand_"`
	Theme     Theme     `json:"theme" gorm:"embedded;embeddedPrefix:theme_"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// User belongs to exactly one tenant; (TenantID, Email) is unique
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TenantID     string    `json:"tenantId" gorm:"type:varchar(36);not null;uniqueIndex:idx_users_tenant_email,priority:1"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:idx_users_tenant_email,priority:2"`
	Name         string    `json:"name" gorm:"type:varchar(255)"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:member"`
	CreatedAt    time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Resource is tenant-owned content
type Resource struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TenantID  string    `json:"tenantId" gorm:"type:varchar(36);not null;index:idx_resources_tenant_created,priority:1"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_resources_tenant_created,priority:2"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserUpdate lists the user columns to change; nil fields are left as they are
type UserUpdate struct {
	Name         *string
	Email        *string
	Role         *Role
	PasswordHash *string
}

// ResourceUpdate lists the resource columns to change; nil fields are left as they are
type ResourceUpdate struct {
	Title   *string
	Content *string
}
