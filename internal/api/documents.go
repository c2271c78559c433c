package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/richmedia/richmedia/backend-go/internal/document"
	"github.com/richmedia/richmedia/backend-go/internal/geometry"
	"github.com/richmedia/richmedia/backend-go/internal/store"
	"github.com/richmedia/richmedia/backend-go/internal/typeid"
	"github.com/richmedia/richmedia/backend-go/internal/validate"
)

var ErrForbidden = errors.New("forbidden")

// Documents stores validated document snapshots per owner.
type Documents struct {
	store  store.Store
	canvas geometry.Size
}

func NewDocuments(s store.Store, canvas geometry.Size) *Documents {
	return &Documents{store: s, canvas: canvas}
}

// Save validates doc and stores it as the next version of documentID. An
// empty documentID starts a new document. Only the owner of the first
// version may add versions.
func (d *Documents) Save(ctx context.Context, userID, documentID string, doc *document.Document) (*store.Snapshot, error) {
	if err := validate.Document(doc, validate.WithCanvas(d.canvas)); err != nil {
		return nil, err
	}

	if documentID == "" {
		documentID = typeid.NewDocumentID()
	} else {
		if err := typeid.Validate(documentID, typeid.PrefixDocument); err != nil {
			return nil, fmt.Errorf("%w: %w", store.ErrNotFound, err)
		}
		latest, err := d.store.Latest(ctx, documentID)
		switch {
		case errors.Is(err, store.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("get latest: %w", err)
		case latest.OwnerID != userID:
			return nil, ErrForbidden
		}
	}

	data, err := document.Encode(doc)
	if err != nil {
		return nil, err
	}
	snap, err := d.store.Save(ctx, store.SaveParams{
		DocumentID: documentID,
		OwnerID:    userID,
		Document:   data,
	})
	if err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	return snap, nil
}

// Latest returns the newest snapshot of documentID owned by userID.
func (d *Documents) Latest(ctx context.Context, userID, documentID string) (*store.Snapshot, error) {
	if !typeid.ValidDocumentID(documentID) {
		return nil, store.ErrNotFound
	}
	snap, err := d.store.Latest(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if snap.OwnerID != userID {
		return nil, ErrForbidden
	}

	// Stores may normalize JSON on the way in; hand back the canonical form.
	doc, err := document.DecodeBytes(snap.Document)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
	}
	canonical, err := document.Encode(doc)
	if err != nil {
		return nil, err
	}
	out := *snap
	out.Document = canonical
	return &out, nil
}
