package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/keyguard/internal/server/storage/migrations"
	"github.com/dmitrijs2005/keyguard/internal/server/users"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

type SQLiteManager struct {
	db    *sql.DB
	users users.Repository
}

func NewSQLiteManager(path string) (*SQLiteManager, error) {
	// _busy_timeout lets concurrent connection workers wait for the write
	// lock instead of failing with SQLITE_BUSY.
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	return &SQLiteManager{db: db, users: users.NewSQLiteRepository(db)}, nil
}

func (m *SQLiteManager) RunMigrations(ctx context.Context) error {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return err
	}
	goose.SetBaseFS(sub)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, m.db, ".")
}

func (m *SQLiteManager) Users() users.Repository {
	return m.users
}

func (m *SQLiteManager) Close() error {
	return m.db.Close()
}
