// Package apiserver assembles the tenantly HTTP API server.
package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/amoylab/tenantly/internal/apiserver/cache"
	"github.com/amoylab/tenantly/internal/apiserver/database"
	"github.com/amoylab/tenantly/internal/apiserver/handler"
	"github.com/amoylab/tenantly/internal/apiserver/identity"
	"github.com/amoylab/tenantly/internal/apiserver/tenancy"
	"github.com/amoylab/tenantly/internal/apiserver/theme"
	"github.com/amoylab/tenantly/internal/auth/jwt"
	"github.com/amoylab/tenantly/internal/common/config"
	"github.com/amoylab/tenantly/internal/i18n"
	"github.com/amoylab/tenantly/pkg/metrics"
	"github.com/amoylab/tenantly/pkg/openapi"
	"github.com/amoylab/tenantly/pkg/version"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Server owns the components of a running API server
type Server struct {
	cfg      *config.APIServerConfig
	logger   *zap.Logger
	db       database.Database
	redis    *redis.Client
	cache    *cache.MultiLayerCache
	identity *identity.Provider
	metrics  *metrics.Metrics
	engine   *gin.Engine
}

// Option customizes a Server
type Option func(*options)

type options struct {
	db         database.Database
	bcryptCost int
}

// WithDatabase uses db instead of opening one from the configuration
func WithDatabase(db database.Database) Option {
	return func(o *options) { o.db = db }
}

// WithBcryptCost overrides the password hashing cost
func WithBcryptCost(cost int) Option {
	return func(o *options) { o.bcryptCost = cost }
}

// New builds every component from cfg. The caller owns the returned Server and must Close it.
func New(ctx context.Context, cfg *config.APIServerConfig, logger *zap.Logger, opts ...Option) (*Server, error) {
	o := options{bcryptCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&o)
	}

	i18n.SetDefaultLanguage(cfg.I18n.DefaultLang)
	if err := i18n.InitTranslator(cfg.I18n.Path); err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}

	s := &Server{cfg: cfg, logger: logger}
	if cfg.Metrics.Enabled {
		s.metrics = metrics.New(cfg.Metrics)
	}

	s.db = o.db
	if s.db == nil {
		db, err := database.NewDatabase(&cfg.Database, database.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		s.db = db
	}

	if err := s.initCache(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	tokens, err := jwt.NewService(cfg.JWT)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}
	s.identity = identity.NewProvider(s.db, tokens, logger,
		identity.WithBcryptCost(o.bcryptCost),
		identity.WithMetrics(s.metrics),
	)

	renderer, err := theme.NewRenderer(cfg.Theme)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	spec, err := openapi.JSON(ctx, version.Get())
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	directory := tenancy.NewDirectory(s.db, s.cache, logger)
	resolver := tenancy.NewResolver(cfg.Tenancy, directory, s.metrics, logger)
	h := handler.NewHandler(handler.Deps{
		DB:       s.db,
		Tenants:  directory,
		Identity: s.identity,
		Theme:    renderer,
		Config:   cfg,
		OpenAPI:  spec,
		Logger:   logger,
	})

	s.engine = NewRouter(RouterDeps{
		Config:   cfg,
		Handler:  h,
		Resolver: resolver,
		Users:    s.identity,
		Metrics:  s.metrics,
		Logger:   logger,
	})
	return s, nil
}

func (s *Server) initCache(ctx context.Context) error {
	cc := cache.Config{
		KeyPrefix:  s.cfg.Cache.Redis.Prefix,
		TTL:        s.cfg.Cache.TTL,
		MaxEntries: s.cfg.Cache.MaxEntries,
		Observer: func(layer cache.Layer, hit bool) {
			s.metrics.CacheLookup(string(layer), hit)
		},
	}
	if s.cfg.Cache.Type == "redis" {
		client, err := cache.NewRedisClient(ctx, s.cfg.Cache.Redis)
		if err != nil {
			return err
		}
		s.redis = client
		cc.Redis = client
	}
	s.cache = cache.New(cc, s.logger)
	return nil
}

// Handler returns the HTTP handler of the API
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Database returns the store the server runs on
func (s *Server) Database() database.Database {
	return s.db
}

// Identity returns the identity provider
func (s *Server) Identity() *identity.Provider {
	return s.identity
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", zap.String("addr", srv.Addr), zap.String("version", version.Get()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return <-errCh
}

// Close releases the database and cache connections
func (s *Server) Close() error {
	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}
