package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/keyguard/internal/server/storage/migrations"
	"github.com/dmitrijs2005/keyguard/internal/server/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresManager struct {
	db    *sql.DB
	users users.Repository
}

func NewPostgresManager(dsn string) (*PostgresManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	return &PostgresManager{db: db, users: users.NewPostgresRepository(db)}, nil
}

func (m *PostgresManager) RunMigrations(ctx context.Context) error {
	sub, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return err
	}
	goose.SetBaseFS(sub)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, m.db, ".")
}

func (m *PostgresManager) Users() users.Repository {
	return m.users
}

func (m *PostgresManager) Close() error {
	return m.db.Close()
}
