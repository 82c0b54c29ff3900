package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/WAVY91/front-project/internal/client/migrations"
	"github.com/WAVY91/front-project/internal/filex"

	_ "modernc.org/sqlite"
)

// RunMigrations applies the embedded cache migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to migrate cache db: %w", err)
	}
	return nil
}

// InitDatabase opens the SQLite cache at dsn and migrates it. The
// directory of a file-backed cache is created if missing.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if path := filex.SQLitePath(dsn); path != "" {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
