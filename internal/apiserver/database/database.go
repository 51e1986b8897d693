package database

import (
	"context"
)

// Database defines the methods for database operations.
//
// Every user and resource accessor takes the owning tenant id as its first
// argument after the context; there is no way to address those records by id alone.
type Database interface {
	// Close closes the database connection.
	Close() error

	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error

	// Transaction runs fn in a transaction carried by the context passed to it.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	CreateTenant(ctx context.Context, tenant *Tenant) error
	GetTenant(ctx context.Context, id string) (*Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*Tenant, error)
	ListTenants(ctx context.Context) ([]*Tenant, error)

	// ListUsers returns the tenant's users, newest first.
	ListUsers(ctx context.Context, tenantID string) ([]*User, error)
	GetUser(ctx context.Context, tenantID, id string) (*User, error)
	GetUserByEmail(ctx context.Context, tenantID, email string) (*User, error)
	CreateUser(ctx context.Context, tenantID string, user *User) error
	UpdateUser(ctx context.Context, tenantID, id string, upd UserUpdate) (*User, error)
	DeleteUser(ctx context.Context, tenantID, id string) error

	// ListResources returns the tenant's resources, newest first.
	ListResources(ctx context.Context, tenantID string) ([]*Resource, error)
	GetResource(ctx context.Context, tenantID, id string) (*Resource, error)
	CreateResource(ctx context.Context, tenantID string, res *Resource) error
	UpdateResource(ctx context.Context, tenantID, id string, upd ResourceUpdate) (*Resource, error)
	DeleteResource(ctx context.Context, tenantID, id string) error
}
