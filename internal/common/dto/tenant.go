package dto

import "github.com/amoylab/tenantly/internal/apiserver/database"

// TenantResponse describes the resolved tenant
type TenantResponse struct {
	Name  string         `json:"name"`
	Slug  string         `json:"slug"`
	Brand database.Brand `json:"brand"`
	Theme database.Theme `json:"theme"`
}

// TenantSummary is one entry of the tenant listing
type TenantSummary struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Slug  string         `json:"slug"`
	Brand database.Brand `json:"brand"`
}

// HealthResponse reports liveness and the resolved tenant slug, if any
type HealthResponse struct {
	Status string  `json:"status"`
	Tenant *string `json:"tenant"`
}

// IndexResponse lists the main endpoints
type IndexResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
