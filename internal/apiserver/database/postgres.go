package database

import (
	"github.com/amoylab/tenantly/internal/common/config"

	"gorm.io/driver/postgres"
)

// NewPostgres opens a PostgreSQL store
func NewPostgres(cfg *config.DatabaseConfig, opts ...Option) (*Store, error) {
	return open(postgres.Open(cfg.GetDSN()), 0, opts...)
}
