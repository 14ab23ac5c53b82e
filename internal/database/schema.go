package database

import (
	"context"
	"database/sql"
	"embed"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrations embed.FS

// goose keeps its dialect and filesystem in package state.
var migrateMu sync.Mutex

func migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	gooseDialect, dir := "sqlite3", "migrations/sqlite"
	if dialect == Postgres {
		gooseDialect, dir = "pgx", "migrations/postgres"
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return err
	}
	goose.SetLogger(goose.NopLogger())
	return goose.UpContext(ctx, db, dir)
}
