// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists completed research, versions, and comments in a
// local SQLite database, with an in-memory fallback when the database
// cannot be opened. The workflow never depends on persistence being
// available: store failures degrade, they do not interrupt a session.
//
// See docs/ARCHITECTURE.md § Persistence.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/meshintel/scribe/pkg/types"
)

const dbFile = "scribe.db"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ResearchStore keeps CompletedResearch records by id.
type ResearchStore interface {
	// Save inserts or replaces a completed-research record.
	Save(ctx context.Context, rec types.CompletedResearch) error

	// List returns all records, most recently saved first.
	List(ctx context.Context) ([]types.CompletedResearch, error)

	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (types.CompletedResearch, error)

	// Delete removes the record with the given id. Deleting a missing
	// record is not an error.
	Delete(ctx context.Context, id string) error
}

// VersionStore keeps append-only version snapshots keyed by research id.
type VersionStore interface {
	// Append adds a version. Versions are never updated or removed.
	Append(ctx context.Context, v types.Version) error

	// List returns a session's versions in append order (oldest first).
	List(ctx context.Context, researchID string) ([]types.Version, error)

	// Get returns one version of a session, or ErrNotFound.
	Get(ctx context.Context, researchID, versionID string) (types.Version, error)
}

// CommentStore keeps user comments keyed by research id.
type CommentStore interface {
	// Create adds a comment.
	Create(ctx context.Context, c types.Comment) error

	// List returns a session's comments in creation order.
	List(ctx context.Context, researchID string) ([]types.Comment, error)

	// Resolve marks a comment resolved. Returns ErrNotFound for unknown ids.
	Resolve(ctx context.Context, id string) error

	// Delete removes a comment. Deleting a missing comment is not an error.
	Delete(ctx context.Context, id string) error
}

// Stores bundles the three persistence collaborators behind one lifecycle.
type Stores struct {
	Research ResearchStore
	Versions VersionStore
	Comments CommentStore

	closer io.Closer
}

// Close releases the underlying database, if any.
func (s *Stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Open opens the SQLite-backed stores under cfg.DataDir. If the database
// cannot be opened the stores degrade to in-memory implementations: a
// warning is written to warn and the workflow proceeds without durability.
func Open(cfg types.StoreConfig, warn io.Writer) *Stores {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = ".scribe"
	}

	db, err := openSQLite(filepath.Join(dataDir, dbFile))
	if err != nil {
		fmt.Fprintf(warn, "warning: persistence unavailable (%v); using in-memory stores\n", err)
		return InMemory()
	}

	return &Stores{
		Research: &sqliteResearch{db: db},
		Versions: &sqliteVersions{db: db},
		Comments: &sqliteComments{db: db},
		closer:   db,
	}
}

// InMemory returns stores backed by process memory only. Used as the
// degraded mode of Open and directly by tests.
func InMemory() *Stores {
	return &Stores{
		Research: newMemResearch(),
		Versions: newMemVersions(),
		Comments: newMemComments(),
	}
}

// ensureDir creates the data directory if needed.
func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}
