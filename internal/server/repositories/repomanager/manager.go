// Package repomanager opens the configured database, runs the embedded goose
// migrations for its dialect and vends repositories bound to a DBTX.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/mindcare/internal/dbx"
	"github.com/dmitrijs2005/mindcare/internal/server/config"
	"github.com/dmitrijs2005/mindcare/internal/server/migrations"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/journals"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/moods"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Journals(db dbx.DBTX) journals.Repository
	Moods(db dbx.DBTX) moods.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}

type dialect struct {
	goose string
	dir   string
}

var dialects = map[string]dialect{
	config.DriverPostgres: {goose: "pgx", dir: migrations.PostgresDir},
	config.DriverSQLite:   {goose: "sqlite3", dir: migrations.SQLiteDir},
}

// SQLRepositoryManager vends the SQL repositories. The repositories share
// their statements across dialects, only migrations differ.
type SQLRepositoryManager struct {
	driver  string
	dialect dialect
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Journals(db dbx.DBTX) journals.Repository {
	return journals.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Moods(db dbx.DBTX) moods.Repository {
	return moods.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect.goose); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, m.dialect.dir); err != nil {
		return err
	}
	return nil
}

// NewRepositoryManager returns the manager for driver ("pgx" or "sqlite").
func NewRepositoryManager(driver string) (RepositoryManager, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return &SQLRepositoryManager{driver: driver, dialect: d}, nil
}

// OpenDB opens a pool for driver and checks it is reachable. SQLite pools are
// limited to one connection so ":memory:" databases are shared and writers
// never contend; foreign keys are switched on for every SQLite connection.
func OpenDB(ctx context.Context, driver, dsn string, maxOpen int) (*sql.DB, error) {
	if _, ok := dialects[driver]; !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == config.DriverSQLite {
		db.SetMaxOpenConns(1)
	} else if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if driver == config.DriverSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}
