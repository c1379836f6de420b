package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/musenest/internal/app"
	"github.com/dropDatabas3/musenest/internal/config"
	"github.com/dropDatabas3/musenest/internal/observability/logger"
	"github.com/dropDatabas3/musenest/internal/store/pg"
	migrations "github.com/dropDatabas3/musenest/migrations/postgres"
)

func main() {
	// .env local: best effort, en producción el entorno viene del runtime
	_ = godotenv.Load()

	var configPath string

	root := &cobra.Command{
		Use:           "musenest",
		Short:         "Plataforma multi-tenant de portfolios de models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "ruta del YAML de configuración")

	root.AddCommand(serveCmd(&configPath))
	root.AddCommand(migrateCmd(&configPath))
	root.AddCommand(seedCmd(&configPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig carga y valida la configuración e inicializa el logger.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger.Init(logger.Config{Env: cfg.App.Env, ServiceName: "musenest"})
	return cfg, nil
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Arranca el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			log := logger.L()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			container, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer container.Close()

			if err := container.StartScheduler(); err != nil {
				return fmt.Errorf("scheduler: %w", err)
			}

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           container.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("http server listening", logger.String("addr", cfg.Server.Addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				log.Info("shutdown signal received")
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("graceful shutdown failed", logger.Err(err))
				return err
			}
			log.Info("server stopped")
			return nil
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones del esquema y termina",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			store, err := pg.New(ctx, cfg.Storage.DSN, pg.Config{})
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			n, err := store.RunMigrations(ctx, migrations.SchemaFS, migrations.SchemaDir)
			if err != nil {
				return err
			}
			logger.L().Info("migrations applied", logger.Count(n))
			return nil
		},
	}
}
