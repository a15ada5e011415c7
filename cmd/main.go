package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/equiptrack/equiptrack-server/database"
	httpcontext "github.com/equiptrack/equiptrack-server/internal/api/http/context"
	"github.com/equiptrack/equiptrack-server/internal/api/http/router"
	httpserver "github.com/equiptrack/equiptrack-server/internal/api/http/server"
	"github.com/equiptrack/equiptrack-server/internal/cache"
	"github.com/equiptrack/equiptrack-server/internal/config"
	"github.com/equiptrack/equiptrack-server/internal/logger"
	"github.com/equiptrack/equiptrack-server/internal/model"
	"github.com/equiptrack/equiptrack-server/internal/registry"
	"github.com/equiptrack/equiptrack-server/internal/server"
	"github.com/equiptrack/equiptrack-server/internal/service"
	"github.com/equiptrack/equiptrack-server/internal/storage/postgres"
	"github.com/equiptrack/equiptrack-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "equiptrack: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "equiptrack-server",
		Short:        "Equipment record-management backend",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newVersionCmd(),
	)
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			return database.Migrate(cmd.Context(), cfg.Database.DSN)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("Build version: %s\nBuild date: %s\nBuild commit: %s\n", buildVersion, buildDate, buildCommit)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	log := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer db.Close()

	var backend cache.Backend
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()
		backend = cache.NewRedis(client)
	}

	store := postgres.NewStore(db, model.CollectionSpecs(cfg.Redis.Namespace))
	reg, err := registry.New(registry.Deps{
		Store:     store,
		Cache:     backend,
		Namespace: cfg.Redis.Namespace,
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("failed to build service registry: %w", err)
	}

	tokenService := service.NewToken(token.NewJWT(cfg.JWT.Secret), log)
	ctxMgr := httpcontext.NewManager()

	r := router.New(reg, tokenService, ctxMgr, log)
	srv := httpserver.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		log.Info("starting server", "address", s.Address())
		if err := s.Start(sl); err != nil {
			log.Error("failed to start server", "error", err)
		}
	}(srv)

	<-ctx.Done()
	log.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	log.Info("shutdown complete")
	return nil
}
