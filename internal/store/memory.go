// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"sync"

	"github.com/meshintel/scribe/pkg/types"
)

// memResearch is the in-memory ResearchStore used when SQLite is
// unavailable. Records survive for the process lifetime only.
type memResearch struct {
	mu    sync.Mutex
	recs  map[string]types.CompletedResearch
	order []string
}

func newMemResearch() *memResearch {
	return &memResearch{recs: make(map[string]types.CompletedResearch)}
}

func (m *memResearch) Save(_ context.Context, rec types.CompletedResearch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.recs[rec.ID]; !exists {
		m.order = append(m.order, rec.ID)
	}
	m.recs[rec.ID] = rec
	return nil
}

func (m *memResearch) List(_ context.Context) ([]types.CompletedResearch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Most recently saved first, matching the SQLite ordering.
	out := make([]types.CompletedResearch, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.recs[m.order[i]])
	}
	return out, nil
}

func (m *memResearch) Get(_ context.Context, id string) (types.CompletedResearch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[id]
	if !ok {
		return types.CompletedResearch{}, ErrNotFound
	}
	return rec, nil
}

func (m *memResearch) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[id]; !ok {
		return nil
	}
	delete(m.recs, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// memVersions is the in-memory VersionStore.
type memVersions struct {
	mu       sync.Mutex
	bySess   map[string][]types.Version
}

func newMemVersions() *memVersions {
	return &memVersions{bySess: make(map[string][]types.Version)}
}

func (m *memVersions) Append(_ context.Context, v types.Version) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bySess[v.ResearchID] = append(m.bySess[v.ResearchID], v)
	return nil
}

func (m *memVersions) List(_ context.Context, researchID string) ([]types.Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	versions := m.bySess[researchID]
	out := make([]types.Version, len(versions))
	copy(out, versions)
	return out, nil
}

func (m *memVersions) Get(_ context.Context, researchID, versionID string) (types.Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.bySess[researchID] {
		if v.VersionID == versionID {
			return v, nil
		}
	}
	return types.Version{}, ErrNotFound
}

// memComments is the in-memory CommentStore.
type memComments struct {
	mu       sync.Mutex
	comments []types.Comment
}

func newMemComments() *memComments {
	return &memComments{}
}

func (m *memComments) Create(_ context.Context, c types.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments = append(m.comments, c)
	return nil
}

func (m *memComments) List(_ context.Context, researchID string) ([]types.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Comment
	for _, c := range m.comments {
		if c.ResearchID == researchID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memComments) Resolve(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.comments {
		if m.comments[i].ID == id {
			m.comments[i].Resolved = true
			return nil
		}
	}
	return ErrNotFound
}

func (m *memComments) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.comments {
		if m.comments[i].ID == id {
			m.comments = append(m.comments[:i], m.comments[i+1:]...)
			return nil
		}
	}
	return nil
}
