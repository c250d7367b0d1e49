// Command xlist serves the X profile directory.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	xlist "github.com/Harshan-Nayak/xlist"
	"github.com/Harshan-Nayak/xlist/clicks"
	"github.com/Harshan-Nayak/xlist/command"
	"github.com/Harshan-Nayak/xlist/httpapi"
	"github.com/Harshan-Nayak/xlist/internal/config"
	"github.com/Harshan-Nayak/xlist/migrations"
	"github.com/Harshan-Nayak/xlist/pkg/logging"
	"github.com/Harshan-Nayak/xlist/pkg/metrics"
	"github.com/Harshan-Nayak/xlist/profile"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	zlog "github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func main() {
	if err := run(); err != nil {
		zlog.Fatal().Err(err).Msg("xlist stopped")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := prepareSchema(ctx, db, cfg.Database); err != nil {
		return err
	}

	location, err := cfg.Analytics.Location()
	if err != nil {
		return err
	}
	profiles, err := profile.NewRepository(
		profile.RepositoryConfig{DB: db},
		profile.WithCache(cfg.Cache.Enabled),
	)
	if err != nil {
		return fmt.Errorf("profile repository: %w", err)
	}
	clickRepo, err := clicks.NewRepository(clicks.RepositoryConfig{DB: db})
	if err != nil {
		return fmt.Errorf("click repository: %w", err)
	}

	clickGate, err := command.NewFeatureGate(ctx, map[string]bool{
		command.FeatureClickTracking: cfg.Clicks.Enabled,
	})
	if err != nil {
		return fmt.Errorf("feature gate: %w", err)
	}

	rec := metrics.New()
	svc := xlist.New(xlist.Config{
		ProfileRepository: profiles,
		ClickRepository:   clickRepo,
		Logger:            logging.NewAdapter(logger),
		Location:          location,
		StoreTimeout:      cfg.Database.StoreTimeout,
		ClickTimeout:      cfg.Clicks.Timeout,
		FeatureGate:       clickGate,
		Metrics:           rec,
		Pinger:            db,
	})
	if err := svc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check: %w", err)
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: httpapi.NewRouter(httpapi.RouterConfig{
			Service:        svc,
			Auth:           httpapi.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
			Metrics:        rec,
			MetricsHandler: rec.Handler(),
			AllowedOrigins: cfg.Server.CORSOrigins,
			RateLimit:      cfg.Server.RateLimit,
			RateWindow:     cfg.Server.RateWindow,
		}),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("http server listening")
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

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	if tracker := svc.Tracker(); tracker != nil {
		if err := tracker.Wait(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("click recordings still in flight")
		}
	}
	return nil
}

func openDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	var db *bun.DB
	switch cfg.Driver {
	case migrations.DialectPostgres:
		sqldb, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	case migrations.DialectSQLite:
		sqldb, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// sqlite serializes writers
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return db, nil
}

func prepareSchema(ctx context.Context, db *bun.DB, cfg config.DatabaseConfig) error {
	dialect, err := migrations.DialectDir(db)
	if err != nil {
		return err
	}
	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		applied, err := migrations.Apply(ctx, db)
		if err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		zlog.Info().Strs("applied", applied).Msg("migrations applied")
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()
	return migrations.ValidateSchema(ctx, db.DB, dialect)
}
