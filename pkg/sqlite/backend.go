// Package sqlite provides the public constructor for the SQLite block
// store while keeping the implementation internal.
package sqlite

import (
	"log/slog"

	"github.com/mesh-intelligence/blocks/internal/sqlite"
	"github.com/mesh-intelligence/blocks/pkg/types"
)

// NewBackend creates a new SQLite store. The store is not attached; call
// Attach with a Config to open it.
//
// Example:
//
//	store := sqlite.NewBackend(nil)
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".blocks-db",
//	})
//	defer store.Detach()
func NewBackend(logger *slog.Logger) types.Store {
	return sqlite.NewBackend(sqlite.WithLogger(logger))
}
