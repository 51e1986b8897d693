package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/amoylab/tenantly/pkg/trace"
)

const (
	DefaultThemePrimary    = "#2d6cdf"
	DefaultThemeBackground = "#ffffff"
	DefaultThemeText       = "#111111"

	// DefaultTokenDuration is how long an issued session token stays valid.
	DefaultTokenDuration = 7 * 24 * time.Hour
)

type (
	APIServerConfig struct {
		Server    ServerConfig    `yaml:"server"`
		Database  DatabaseConfig  `yaml:"database"`
		Cache     CacheConfig     `yaml:"cache"`
		JWT       JWTConfig       `yaml:"jwt"`
		Cookie    CookieConfig    `yaml:"cookie"`
		Theme     ThemeConfig     `yaml:"theme"`
		Tenancy   TenancyConfig   `yaml:"tenancy"`
		Resources ResourcesConfig `yaml:"resources"`
		CORS      CORSConfig      `yaml:"cors"`
		Logger    LoggerConfig    `yaml:"logger"`
		I18n      I18nConfig      `yaml:"i18n"`
		Metrics   MetricsConfig   `yaml:"metrics"`
		Tracing   trace.Config    `yaml:"tracing"`
	}

	ServerConfig struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		Environment     string        `yaml:"environment"` // development, production, test
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	}

	DatabaseConfig struct {
		Type     string `yaml:"type"`     // mysql, postgres, sqlite
		Host     string `yaml:"host"`     // localhost
		Port     int    `yaml:"port"`     // 3306 (for mysql), 5432 (for postgres)
		User     string `yaml:"user"`     // root (for mysql), postgres (for postgres)
		Password string `yaml:"password"` // password
		DBName   string `yaml:"dbname"`   // database name, or file path for sqlite
		SSLMode  string `yaml:"sslmode"`  // disable (for postgres)
	}

	// CacheConfig configures the tenant directory cache
	CacheConfig struct {
		Type       string           `yaml:"type"` // memory or redis
		TTL        time.Duration    `yaml:"ttl"`
		MaxEntries int              `yaml:"max_entries"`
		Redis      CacheRedisConfig `yaml:"redis"`
	}

	CacheRedisConfig struct {
		Addr     string `yaml:"addr"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	}

	JWTConfig struct {
		SecretKey string        `yaml:"secret_key"`
		Duration  time.Duration `yaml:"duration"`
	}

	// CookieConfig configures the session cookie carrying the token
	CookieConfig struct {
		Name   string `yaml:"name"`
		Secure bool   `yaml:"secure"`
	}

	// ThemeConfig holds the system-wide theme defaults
	ThemeConfig struct {
		Primary    string `yaml:"primary"`
		Background string `yaml:"background"`
		Text       string `yaml:"text"`
	}

	TenancyConfig struct {
		Header      string   `yaml:"header"`
		RootDomains []string `yaml:"root_domains"` // hosts that never carry a tenant label
	}

	ResourcesConfig struct {
		RequireAuth bool `yaml:"require_auth"`
	}

	CORSConfig struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	}

	// I18nConfig represents the internationalization configuration
	I18nConfig struct {
		Path        string `yaml:"path"` // optional directory overriding the embedded translations
		DefaultLang string `yaml:"default_lang"`
	}
)

// ApplyDefaults fills unset values
func (c *APIServerConfig) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 4000
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.Type == "sqlite" && c.Database.DBName == "" {
		c.Database.DBName = "./data/tenantly.db"
	}
	if c.Cache.Type == "" {
		c.Cache.Type = "memory"
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = 1024
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "tenantly:"
	}
	if c.JWT.Duration <= 0 {
		c.JWT.Duration = DefaultTokenDuration
	}
	if c.Cookie.Name == "" {
		c.Cookie.Name = "token"
	}
	if c.Theme.Primary == "" {
		c.Theme.Primary = DefaultThemePrimary
	}
	if c.Theme.Background == "" {
		c.Theme.Background = DefaultThemeBackground
	}
	if c.Theme.Text == "" {
		c.Theme.Text = DefaultThemeText
	}
	if c.Tenancy.Header == "" {
		c.Tenancy.Header = "X-Tenant-ID"
	}
	for i, d := range c.Tenancy.RootDomains {
		c.Tenancy.RootDomains[i] = strings.ToLower(strings.TrimSpace(d))
	}
	if c.I18n.DefaultLang == "" {
		c.I18n.DefaultLang = "en"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "tenantly"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "tenantly-apiserver"
	}
}

// Validate reports configuration that cannot be started with
func (c *APIServerConfig) Validate() error {
	var errs []error
	switch c.Database.Type {
	case "sqlite", "postgres", "mysql":
	default:
		errs = append(errs, fmt.Errorf("unsupported database type: %s", c.Database.Type))
	}
	switch c.Cache.Type {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr is required for redis cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported cache type: %s", c.Cache.Type))
	}
	if len(c.JWT.SecretKey) < 32 {
		errs = append(errs, errors.New("jwt.secret_key must be at least 32 characters"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the server runs in production mode
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case "postgres":
		return c.getPostgresDSN()
	case "mysql":
		return c.getMySQLDSN()
	case "sqlite":
		if c.DBName == ":memory:" || strings.HasPrefix(c.DBName, "file:") {
			return c.DBName
		}
		// Ensure the directory for the SQLite database exists.
		if err := os.MkdirAll(filepath.Dir(c.DBName), 0755); err != nil {
			panic(fmt.Errorf("failed to create directory for sqlite database: %w", err))
		}
		return c.DBName
	default:
		return ""
	}
}

// getPostgresDSN returns PostgreSQL connection string
func (c *DatabaseConfig) getPostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// getMySQLDSN returns MySQL connection string
func (c *DatabaseConfig) getMySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}
