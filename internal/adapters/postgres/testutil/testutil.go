// Package testutil opens a migrated Postgres pool for adapter tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	postgres "github.com/Overland-East-Bay/family-planner-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/family-planner-api/internal/platform/migrate"
)

// EnvDatabaseURL names the variable pointing at a disposable test database.
const EnvDatabaseURL = "TEST_DATABASE_URL"

// OpenMigratedPool connects to TEST_DATABASE_URL, applies migrations and
// truncates the tables. The test is skipped when the variable is unset.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s not set; skipping Postgres tests", EnvDatabaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{MaxConns: 4})
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	if err := migrate.Up(db, migrate.DialectPostgres); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, table := range []string{"families", "idempotency_keys"} {
		if _, err := pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s", table)); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
	return pool
}
