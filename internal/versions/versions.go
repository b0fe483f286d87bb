// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package versions maintains the append-only snapshot history of a
// research session's content and outline. Snapshots are taken at defined
// checkpoints (plan edited, writing complete, manual save); restoring one
// returns its data without rewriting history.
//
// See docs/ARCHITECTURE.md § Versioning.
package versions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/meshintel/scribe/internal/store"
	"github.com/meshintel/scribe/pkg/types"
)

// Manager creates, lists, restores, and diffs versions over a VersionStore.
type Manager struct {
	store store.VersionStore

	// now is the clock; tests substitute it for deterministic timestamps.
	now func() time.Time
}

// NewManager returns a Manager backed by s.
func NewManager(s store.VersionStore) *Manager {
	return &Manager{store: s, now: time.Now}
}

// Create appends a new version for the session and returns it. Create
// always appends; it never replaces an earlier snapshot.
func (m *Manager) Create(ctx context.Context, researchID, content, outline, comment string) (types.Version, error) {
	v := types.Version{
		VersionID:  uuid.NewString(),
		ResearchID: researchID,
		Timestamp:  m.now(),
		Content:    content,
		Outline:    outline,
		Comment:    comment,
	}
	if err := m.store.Append(ctx, v); err != nil {
		return types.Version{}, fmt.Errorf("creating version: %w", err)
	}
	return v, nil
}

// List returns the session's versions newest-first, the order history
// views display them in.
func (m *Manager) List(ctx context.Context, researchID string) ([]types.Version, error) {
	versions, err := m.store.List(ctx, researchID)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	// Store order is append order (oldest first); reverse for display.
	out := make([]types.Version, len(versions))
	for i, v := range versions {
		out[len(versions)-1-i] = v
	}
	return out, nil
}

// Restore returns the (content, outline) pair stored in the named version.
// It does not mutate the working state and does not remove later versions:
// the caller decides what to do with the returned data, and snapshots
// again if the restoration itself should appear in history.
func (m *Manager) Restore(ctx context.Context, researchID, versionID string) (content, outline string, err error) {
	v, err := m.store.Get(ctx, researchID, versionID)
	if err != nil {
		return "", "", fmt.Errorf("restoring version %s: %w", versionID, err)
	}
	return v.Content, v.Outline, nil
}

// Diff returns a unified diff of the content between two versions of the
// same session, labeled with the version ids.
func (m *Manager) Diff(ctx context.Context, researchID, fromID, toID string) (string, error) {
	from, err := m.store.Get(ctx, researchID, fromID)
	if err != nil {
		return "", fmt.Errorf("diffing versions: %w", err)
	}
	to, err := m.store.Get(ctx, researchID, toID)
	if err != nil {
		return "", fmt.Errorf("diffing versions: %w", err)
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(from.Content),
		B:        difflib.SplitLines(to.Content),
		FromFile: fromID,
		ToFile:   toID,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("computing diff: %w", err)
	}
	return text, nil
}
