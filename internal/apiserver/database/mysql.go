package database

import (
	"github.com/amoylab/tenantly/internal/common/config"

	"gorm.io/driver/mysql"
)

// NewMySQL opens a MySQL store
func NewMySQL(cfg *config.DatabaseConfig, opts ...Option) (*Store, error) {
	return open(mysql.Open(cfg.GetDSN()), 0, opts...)
}
