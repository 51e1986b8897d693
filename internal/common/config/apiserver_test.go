package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseConfig_GetDSN_Postgres(t *testing.T) {
	c := &DatabaseConfig{Type: "postgres", Host: "h", Port: 5432, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", c.GetDSN())
}

func TestDatabaseConfig_GetDSN_MySQL(t *testing.T) {
	c := &DatabaseConfig{Type: "mysql", Host: "h", Port: 3306, User: "u", Password: "p", DBName: "d"}
	assert.Equal(t, "u:p@tcp(h:3306)/d?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true", c.GetDSN())
}

func TestDatabaseConfig_GetDSN_SQLite(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "data", "app.sqlite")
	c := &DatabaseConfig{Type: "sqlite", DBName: dbPath}
	assert.Equal(t, dbPath, c.GetDSN())
	_, err := os.Stat(filepath.Dir(dbPath))
	assert.NoError(t, err)

	mem := &DatabaseConfig{Type: "sqlite", DBName: ":memory:"}
	assert.Equal(t, ":memory:", mem.GetDSN())
}

func TestDatabaseConfig_GetDSN_Unknown(t *testing.T) {
	c := &DatabaseConfig{Type: "unknown"}
	assert.Equal(t, "", c.GetDSN())
}

func TestAPIServerConfig_ApplyDefaults(t *testing.T) {
	c := &APIServerConfig{Tenancy: TenancyConfig{RootDomains: []string{" Example.COM "}}}
	c.ApplyDefaults()

	assert.Equal(t, 4000, c.Server.Port)
	assert.Equal(t, "sqlite", c.Database.Type)
	assert.Equal(t, "memory", c.Cache.Type)
	assert.Equal(t, 7*24*time.Hour, c.JWT.Duration)
	assert.Equal(t, "token", c.Cookie.Name)
	assert.Equal(t, DefaultThemePrimary, c.Theme.Primary)
	assert.Equal(t, DefaultThemeBackground, c.Theme.Background)
	assert.Equal(t, DefaultThemeText, c.Theme.Text)
	assert.Equal(t, "X-Tenant-ID", c.Tenancy.Header)
	assert.Equal(t, []string{"example.com"}, c.Tenancy.RootDomains)
}

func TestAPIServerConfig_Validate(t *testing.T) {
	c := &APIServerConfig{}
	c.ApplyDefaults()
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret_key")

	c.JWT.SecretKey = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, c.Validate())

	c.Cache.Type = "redis"
	assert.ErrorContains(t, c.Validate(), "cache.redis.addr")

	c.Cache.Type = "memcached"
	assert.ErrorContains(t, c.Validate(), "unsupported cache type")
}
