package signatures

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Signature // documentID -> signature
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Signature),
	}
}

// Create stores a signature, rejecting a second one for the same document.
func (r *MemoryRepo) Create(ctx context.Context, sig Signature) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[sig.DocumentID]; exists {
		return ErrAlreadySigned
	}
	if sig.SignedAt.IsZero() {
		sig.SignedAt = time.Now().UTC()
	}
	r.data[sig.DocumentID] = sig
	return nil
}

// GetByDocumentID returns the signature attached to a document.
func (r *MemoryRepo) GetByDocumentID(ctx context.Context, documentID string) (Signature, error) {
	if err := ctx.Err(); err != nil {
		return Signature{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	sig, ok := r.data[documentID]
	if !ok {
		return Signature{}, ErrNotFound
	}
	return sig, nil
}

// ForDocuments returns the signatures for the given documents, keyed by document ID.
func (r *MemoryRepo) ForDocuments(ctx context.Context, documentIDs []string) (map[string]Signature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Signature, len(documentIDs))
	for _, id := range documentIDs {
		if sig, ok := r.data[id]; ok {
			out[id] = sig
		}
	}
	return out, nil
}

// DeleteByDocumentID removes a document's signature. The Postgres schema
// cascades this from the documents row instead.
func (r *MemoryRepo) DeleteByDocumentID(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, documentID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
