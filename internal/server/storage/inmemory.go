package storage

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/keyguard/internal/server/users"
)

// Store driver names accepted in config.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type InMemoryManager struct {
	users users.Repository
}

func NewInMemoryManager() *InMemoryManager {
	return &InMemoryManager{users: users.NewInMemoryRepository()}
}

func (m *InMemoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *InMemoryManager) Users() users.Repository { return m.users }

func (m *InMemoryManager) Close() error { return nil }

// NewManager constructs the backend selected by driver. dsn is the postgres
// DSN or the sqlite file path; the memory driver ignores it.
func NewManager(driver, dsn string) (Manager, error) {
	switch driver {
	case DriverPostgres:
		return NewPostgresManager(dsn)
	case DriverSQLite:
		return NewSQLiteManager(dsn)
	case DriverMemory:
		return NewInMemoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
