package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/amoylab/tenantly/internal/apiserver"
	"github.com/amoylab/tenantly/internal/apiserver/database"
	"github.com/amoylab/tenantly/internal/common/config"
	"github.com/amoylab/tenantly/pkg/logger"
	"github.com/amoylab/tenantly/pkg/trace"
	"github.com/amoylab/tenantly/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultSeedPassword = "password123"

var (
	configPath   string
	seedPassword string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of apiserver",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String("apiserver"))
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Create the demo tenants, users and resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seed(cmd.Context(), cmd)
		},
	}

	rootCmd = &cobra.Command{
		Use:          "apiserver",
		Short:        "Tenantly API Server",
		Long:         `Tenantly API Server serves the multi-tenant SaaS API`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", "apiserver.yaml", "path to configuration file")
	seedCmd.Flags().StringVar(&seedPassword, "password", defaultSeedPassword, "password given to every seeded user")
	rootCmd.AddCommand(versionCmd, seedCmd)
}

func loadConfig() *config.APIServerConfig {
	cfg, path, err := config.LoadConfig[config.APIServerConfig](configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration from %s: %v", path, err)
	}
	return cfg
}

func initLogger(cfg *config.APIServerConfig) *zap.Logger {
	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return lg
}

func initTracing(ctx context.Context, lg *zap.Logger, cfg *trace.Config) func(context.Context) error {
	shutdown, err := trace.InitTracing(ctx, cfg, lg)
	if err != nil {
		lg.Warn("tracing disabled", zap.Error(err))
		return func(context.Context) error { return nil }
	}
	return shutdown
}

func run(ctx context.Context) error {
	cfg := loadConfig()
	lg := initLogger(cfg)
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := initTracing(ctx, lg, &cfg.Tracing)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			lg.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	lg.Info("Starting apiserver",
		zap.String("version", version.Get()),
		zap.String("environment", cfg.Server.Environment),
		zap.String("database", cfg.Database.Type))

	srv, err := apiserver.New(ctx, cfg, lg)
	if err != nil {
		lg.Error("failed to initialize server", zap.Error(err))
		return err
	}
	defer srv.Close()

	return srv.Run(ctx)
}

func seed(ctx context.Context, cmd *cobra.Command) error {
	cfg := loadConfig()
	lg := initLogger(cfg)
	defer lg.Sync()

	srv, err := apiserver.New(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer srv.Close()

	res, err := database.Seed(ctx, srv.Database(), database.DemoTenants, seedPassword, srv.Identity().HashPassword)
	if err != nil {
		lg.Error("failed to seed database", zap.Error(err))
		return err
	}
	lg.Info("database seeded", zap.Strings("created", res.Created), zap.Strings("skipped", res.Skipped))
	fmt.Fprintf(cmd.OutOrStdout(), "created: [%s] skipped: [%s]\n",
		strings.Join(res.Created, ", "), strings.Join(res.Skipped, ", "))
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
