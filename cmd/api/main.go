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

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/Overland-East-Bay/family-planner-api/internal/adapters/httpapi"
	memfamilyrepo "github.com/Overland-East-Bay/family-planner-api/internal/adapters/memory/familyrepo"
	memidempotency "github.com/Overland-East-Bay/family-planner-api/internal/adapters/memory/idempotency"
	postgres "github.com/Overland-East-Bay/family-planner-api/internal/adapters/postgres"
	pgfamilyrepo "github.com/Overland-East-Bay/family-planner-api/internal/adapters/postgres/familyrepo"
	pgidempotency "github.com/Overland-East-Bay/family-planner-api/internal/adapters/postgres/idempotency"
	"github.com/Overland-East-Bay/family-planner-api/internal/adapters/sqlite"
	sqlitefamilyrepo "github.com/Overland-East-Bay/family-planner-api/internal/adapters/sqlite/familyrepo"
	"github.com/Overland-East-Bay/family-planner-api/internal/app/families"
	platformclock "github.com/Overland-East-Bay/family-planner-api/internal/platform/clock"
	"github.com/Overland-East-Bay/family-planner-api/internal/platform/config"
	"github.com/Overland-East-Bay/family-planner-api/internal/platform/logging"
	"github.com/Overland-East-Bay/family-planner-api/internal/platform/metrics"
	"github.com/Overland-East-Bay/family-planner-api/internal/platform/migrate"
	clockport "github.com/Overland-East-Bay/family-planner-api/internal/ports/out/clock"
	familyrepoport "github.com/Overland-East-Bay/family-planner-api/internal/ports/out/familyrepo"
	idempotencyport "github.com/Overland-East-Bay/family-planner-api/internal/ports/out/idempotency"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid config", "err", err)
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal("invalid logging config", "err", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("api exited", "err", err)
	}
}

type storage struct {
	families familyrepoport.Repository
	idem     idempotencyport.Store
	cleanup  func()
}

func openStorage(ctx context.Context, cfg config.Config, clk clockport.Clock) (storage, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			return storage{}, fmt.Errorf("invalid postgres config: %w", err)
		}
		db := stdlib.OpenDBFromPool(pool)
		err = migrate.Up(db, migrate.DialectPostgres)
		_ = db.Close()
		if err != nil {
			pool.Close()
			return storage{}, err
		}
		return storage{
			families: pgfamilyrepo.NewRepo(pool),
			idem:     pgidempotency.NewStore(pool),
			cleanup:  pool.Close,
		}, nil
	case config.StorageSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return storage{}, err
		}
		return storage{
			families: sqlitefamilyrepo.NewRepo(db),
			idem:     memidempotency.NewStore(memidempotency.WithTTL(cfg.IdempotencyTTL, clk)),
			cleanup:  func() { _ = db.Close() },
		}, nil
	default:
		return storage{
			families: memfamilyrepo.NewRepo(),
			idem:     memidempotency.NewStore(memidempotency.WithTTL(cfg.IdempotencyTTL, clk)),
			cleanup:  func() {},
		}, nil
	}
}

func run(cfg config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := platformclock.NewSystemClock()
	store, err := openStorage(ctx, cfg, clk)
	if err != nil {
		return err
	}
	defer store.cleanup()

	m, err := metrics.New(nil)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	svc := families.NewService(store.families, clk, families.WithObserver(m))
	api := httpapi.NewServer(svc, store.idem, clk, logger)
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		Metrics:            m,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api listening", "addr", srv.Addr, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
