package database

import (
	"github.com/amoylab/tenantly/internal/common/config"

	"github.com/glebarez/sqlite"
)

// NewSQLite opens a pure-Go SQLite store.
// SQLite serializes writers, and a single connection keeps ":memory:" databases shared.
func NewSQLite(cfg *config.DatabaseConfig, opts ...Option) (*Store, error) {
	return open(sqlite.Open(cfg.GetDSN()), 1, opts...)
}
