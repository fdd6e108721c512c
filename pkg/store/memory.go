package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps snapshots in process memory. It is safe for concurrent
// use.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]*Snapshot)}
}

// Save stores a copy of s.
func (m *MemoryStore) Save(_ context.Context, s *Snapshot) error {
	if err := prepare(s); err != nil {
		return err
	}
	cp := *s
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[s.ID] = &cp
	return nil
}

// Get returns a copy of the snapshot with the given ID.
func (m *MemoryStore) Get(_ context.Context, id string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

// List returns snapshots newest first, ties broken by ID.
func (m *MemoryStore) List(_ context.Context, limit int) ([]*Snapshot, error) {
	m.mu.RLock()
	out := make([]*Snapshot, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		cp := *s
		out = append(out, &cp)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Snapshot) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit = clampLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a snapshot.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.snapshots[id]; !ok {
		return ErrNotFound
	}
	delete(m.snapshots, id)
	return nil
}

// Close does nothing.
func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
