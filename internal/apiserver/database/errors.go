package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no record matches both the id and the tenant
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is already taken
	ErrDuplicate = errors.New("duplicate record")
	// ErrTenantScope is returned when a tenant-scoped accessor is called without a tenant id
	ErrTenantScope = errors.New("tenant id is required")
)

// translateError maps driver and gorm errors to the package sentinels
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isDuplicateKey(err):
		return ErrDuplicate
	default:
		return err
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry")
}
