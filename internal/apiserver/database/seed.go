package database

import (
	"context"
	"errors"
	"fmt"
)

// SeedTenant describes one demo tenant with its users and resources
type SeedTenant struct {
	Tenant    Tenant
	Users     []SeedUser
	Resources []Resource
}

// SeedUser is a demo account; the password is hashed before storing
type SeedUser struct {
	Email string
	Name  string
	Role  Role
}

// DemoTenants is the data set written by the seed command
var DemoTenants = []SeedTenant{
	{
		Tenant: Tenant{
			Slug:  "acme",
			Name:  "Acme Corp",
			Brand: Brand{Tagline: "Roadrunner Ready"},
			Theme: Theme{Primary: "#e11d48", Background: "#fff7ed", Text: "#111827"},
		},
		Users: []SeedUser{{Email: "alice@acme.com", Name: "Alice", Role: RoleAdmin}},
		Resources: []Resource{
			{Title: "Acme Guide", Content: "Welcome Acme users"},
			{Title: "Acme Roadmap", Content: "Q4 plans"},
		},
	},
	{
		Tenant: Tenant{
			Slug:  "globex",
			Name:  "Globex",
			Brand: Brand{Tagline: "Future Proof"},
			Theme: Theme{Primary: "#0ea5e9", Background: "#0b1220", Text: "#e2e8f0"},
		},
		Users: []SeedUser{{Email: "gary@globex.com", Name: "Gary", Role: RoleAdmin}},
		Resources: []Resource{
			{Title: "Globex Handbook", Content: "Welcome Globex users"},
		},
	},
}

// SeedResult reports what Seed wrote
type SeedResult struct {
	Created []string
	Skipped []string
}

// Seed writes the given tenants in one transaction. Tenants whose slug already
// exists are skipped together with their users and resources.
func Seed(ctx context.Context, db Database, data []SeedTenant, password string, hash func(string) (string, error)) (*SeedResult, error) {
	pwHash, err := hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	result := &SeedResult{}
	err = db.Transaction(ctx, func(ctx context.Context) error {
		for _, st := range data {
			tenant := st.Tenant
			if _, err := db.GetTenantBySlug(ctx, tenant.Slug); err == nil {
				result.Skipped = append(result.Skipped, tenant.Slug)
				continue
			} else if !errors.Is(err, ErrNotFound) {
				return err
			}

			if err := db.CreateTenant(ctx, &tenant); err != nil {
				return err
			}
			for _, su := range st.Users {
				u := &User{Email: su.Email, Name: su.Name, Role: su.Role, PasswordHash: pwHash}
				if err := db.CreateUser(ctx, tenant.ID, u); err != nil {
					return err
				}
			}
			for _, r := range st.Resources {
				res := r
				if err := db.CreateResource(ctx, tenant.ID, &res); err != nil {
					return err
				}
			}
			result.Created = append(result.Created, tenant.Slug)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
