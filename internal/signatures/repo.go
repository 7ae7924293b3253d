package signatures

import "context"

// Repo defines read operations for signatures. Writes happen inside the sign
// transaction (Postgres) or through the memory repo's Create.
type Repo interface {
	GetByDocumentID(ctx context.Context, documentID string) (Signature, error)
	ForDocuments(ctx context.Context, documentIDs []string) (map[string]Signature, error)
}
