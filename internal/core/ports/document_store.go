package ports

import (
	"context"

	"github.com/lppm/portal-auth/internal/core/domain"
)

// DocumentStore persists uploaded files outside the relational store.
type DocumentStore interface {
	Save(ctx context.Context, doc *domain.Document) (domain.DocumentRef, error)
	Delete(ctx context.Context, ref domain.DocumentRef) error
}

// DocumentDiscarder schedules removal of a document that is no longer
// referenced. It never blocks the caller and never reports failure.
type DocumentDiscarder interface {
	Discard(ref domain.DocumentRef)
}
