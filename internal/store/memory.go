package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/richmedia/richmedia/backend-go/internal/typeid"
)

// Memory is a Store for development and tests. Data is lost on exit.
type Memory struct {
	mu        sync.RWMutex
	snapshots map[string][]Snapshot // documentID -> versions in order
	now       func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		snapshots: make(map[string][]Snapshot),
		now:       time.Now,
	}
}

func (m *Memory) Save(ctx context.Context, p SaveParams) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	versions := m.snapshots[p.DocumentID]
	snap := Snapshot{
		ID:         typeid.NewSnapshotID(),
		DocumentID: p.DocumentID,
		OwnerID:    p.OwnerID,
		Version:    len(versions) + 1,
		Document:   slices.Clone(p.Document),
		CreatedAt:  m.now().UTC(),
	}
	m.snapshots[p.DocumentID] = append(versions, snap)

	out := snap
	return &out, nil
}

func (m *Memory) Latest(ctx context.Context, documentID string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	versions := m.snapshots[documentID]
	if len(versions) == 0 {
		return nil, ErrNotFound
	}
	snap := versions[len(versions)-1]
	snap.Document = slices.Clone(snap.Document)
	return &snap, nil
}

func (m *Memory) Close() {}
