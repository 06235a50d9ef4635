// Package storage selects and wires the user store backend. The server
// supports postgres for shared deployments, sqlite for single-node ones
// and a process-local in-memory store for development and tests.
package storage

import (
	"context"

	"github.com/dmitrijs2005/keyguard/internal/server/users"
)

// Manager owns the store backend for the lifetime of the process. The
// handle is constructed once at startup and passed into each connection
// worker; there is no ambient global store.
type Manager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Close() error
}
