// Package state persists task snapshots in a local SQLite database.
package state

import (
	"io"
	"time"
)

// SnapshotReader loads previously saved snapshot blobs.
type SnapshotReader interface {
	// LoadSnapshot returns the blob stored under name, nil when absent.
	LoadSnapshot(name string) ([]byte, error)
	// SnapshotSavedAt returns when the blob was last written, zero when absent.
	SnapshotSavedAt(name string) (time.Time, error)
}

// SnapshotWriter stores snapshot blobs.
type SnapshotWriter interface {
	// SaveSnapshot stores blob under name, replacing any previous value.
	SaveSnapshot(name string, blob []byte) error
}

// Migrator handles database schema migrations.
// Separating this allows clients to depend only on migration functionality.
type Migrator interface {
	// Migrate applies all pending schema migrations.
	Migrate() error
}

// SnapshotStore defines the interface for snapshot persistence. The CLI
// works against this interface so tests can swap in another backend
// without touching the concrete SQLite implementation.
type SnapshotStore interface {
	io.Closer
	Migrator
	SnapshotReader
	SnapshotWriter
}

// Compile-time verification that DB implements all interfaces.
var (
	_ SnapshotStore  = (*DB)(nil)
	_ Migrator       = (*DB)(nil)
	_ SnapshotReader = (*DB)(nil)
	_ SnapshotWriter = (*DB)(nil)
)
