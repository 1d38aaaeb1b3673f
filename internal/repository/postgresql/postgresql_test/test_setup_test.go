package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/attendify/attendify-backend-go/internal/pkg/database"
)

const migrationsDir = "../../../../migrations"

// TestDatabaseSetup wraps the database used by the repository tests
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the migrations.
func NewTestDatabase(dsn string) (*TestDatabaseSetup, error) {
	db, err := database.NewPostgreSQLDB(dsn, database.PoolOptions{MaxConns: 4})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.sql"))
	if err != nil {
		db.Close()
		return nil, err
	}
	for _, f := range files {
		sql, err := os.ReadFile(f)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to read migration %s: %w", f, err)
		}
		if _, err := db.Exec(context.Background(), string(sql)); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply migration %s: %w", f, err)
		}
	}

	return &TestDatabaseSetup{DB: db}, nil
}

// TruncateAllTables removes all rows written by the tests
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"reconciliation_runs",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
