package database

import (
	"fmt"

	"github.com/amoylab/tenantly/internal/common/config"
)

// NewDatabase creates a new database based on configuration
func NewDatabase(cfg *config.DatabaseConfig, opts ...Option) (Database, error) {
	var (
		s   *Store
		err error
	)
	switch cfg.Type {
	case "postgres":
		s, err = NewPostgres(cfg, opts...)
	case "sqlite":
		s, err = NewSQLite(cfg, opts...)
	case "mysql":
		s, err = NewMySQL(cfg, opts...)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
