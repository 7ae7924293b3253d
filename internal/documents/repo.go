package documents

import (
	"context"
	"time"
)

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	ListByUser(ctx context.Context, userId string, limit, offset int) ([]Document, error)
	Delete(ctx context.Context, documentID string) error
}

// SignatureInfo is the signature attached to a document, as seen from this package.
type SignatureInfo struct {
	ID            string
	UserID        string
	SignatureData string
	SignedAt      time.Time
}

// SignatureLookup resolves signatures for documents without importing the
// signatures package.
type SignatureLookup interface {
	ForDocuments(ctx context.Context, documentIDs []string) (map[string]SignatureInfo, error)
}
