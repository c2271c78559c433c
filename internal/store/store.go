// Package store keeps versioned document snapshots.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("snapshot not found")
	ErrConflict = errors.New("snapshot version conflict")
)

// Snapshot is one saved version of a document. Versions start at 1 and
// increase by one per save.
type Snapshot struct {
	ID         string          `json:"id"`
	DocumentID string          `json:"documentId"`
	OwnerID    string          `json:"ownerId"`
	Version    int             `json:"version"`
	Document   json.RawMessage `json:"document"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type SaveParams struct {
	DocumentID string
	OwnerID    string
	Document   json.RawMessage
}

// Store is implemented by Postgres and Memory.
type Store interface {
	Save(ctx context.Context, p SaveParams) (*Snapshot, error)
	Latest(ctx context.Context, documentID string) (*Snapshot, error)
	Close()
}
