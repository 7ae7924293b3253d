package documents

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/pdfmeta"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/storage/object"
	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/telemetry"
)

var allowedMimeTypes = map[string]struct{}{
	"application/pdf":   {},
	"application/x-pdf": {},
}

// DocumentWithSignature pairs a document with its signature, if any.
type DocumentWithSignature struct {
	Document  Document
	Signature *SignatureInfo
}

// Service contains business logic for documents.
type Service struct {
	Store      object.ObjectStore
	Repo       Repo
	Signatures SignatureLookup
}

// Upload validates the payload, saves the file to object storage and records
// the document with status PENDING. If the row insert fails after the file
// was stored, the stored file is removed best-effort.
func (s *Service) Upload(ctx context.Context, userId, fileName, mimeType string, r io.Reader) (Document, error) {
	if fileName == "" {
		return Document{}, ErrInvalidInput
	}

	mimeType = normalizeMimeType(mimeType)
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		return Document{}, ErrInvalidType
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return Document{}, ErrInvalidInput
	}

	pages, err := pdfmeta.PageCount(data)
	if err != nil {
		// Page count is informational; the MIME allow-list is the gate.
		telemetry.Warn("document.pdf_parse_failed", map[string]any{
			"user_id":   userId,
			"file_name": fileName,
		})
		pages = 0
	}

	storageKey, size, _, err := s.Store.Save(ctx, userId, fileName, bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("store file: %w", err)
	}

	doc := Document{
		ID:        uuid.NewString(),
		UserID:    userId,
		Name:      fileName,
		FileKey:   storageKey,
		MimeType:  mimeType,
		SizeBytes: size,
		PageCount: pages,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	doc.UpdatedAt = doc.CreatedAt

	if err := s.Repo.Create(ctx, doc); err != nil {
		if cleanupErr := s.Store.Delete(ctx, storageKey); cleanupErr != nil {
			telemetry.Warn("document.orphan_file", map[string]any{
				"file_key": storageKey,
				"error":    cleanupErr.Error(),
			})
		}
		return Document{}, err
	}

	return doc, nil
}

// Get returns a document and its signature after checking ownership.
func (s *Service) Get(ctx context.Context, userId, documentID string) (DocumentWithSignature, error) {
	doc, err := s.owned(ctx, userId, documentID)
	if err != nil {
		return DocumentWithSignature{}, err
	}

	sigs, err := s.Signatures.ForDocuments(ctx, []string{doc.ID})
	if err != nil {
		return DocumentWithSignature{}, err
	}
	out := DocumentWithSignature{Document: doc}
	if sig, ok := sigs[doc.ID]; ok {
		out.Signature = &sig
	}
	return out, nil
}

// List returns the caller's documents, each with its signature or nil.
func (s *Service) List(ctx context.Context, userId string, limit, offset int) ([]DocumentWithSignature, error) {
	if userId == "" {
		return nil, ErrInvalidInput
	}

	docs, err := s.Repo.ListByUser(ctx, userId, limit, offset)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	sigs := map[string]SignatureInfo{}
	if len(ids) > 0 {
		sigs, err = s.Signatures.ForDocuments(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	out := make([]DocumentWithSignature, 0, len(docs))
	for _, doc := range docs {
		item := DocumentWithSignature{Document: doc}
		if sig, ok := sigs[doc.ID]; ok {
			item.Signature = &sig
		}
		out = append(out, item)
	}
	return out, nil
}

// OpenFile re-checks ownership and opens the stored bytes for streaming.
func (s *Service) OpenFile(ctx context.Context, userId, documentID string) (Document, io.ReadCloser, error) {
	doc, err := s.owned(ctx, userId, documentID)
	if err != nil {
		return Document{}, nil, err
	}

	reader, err := s.Store.Open(ctx, doc.FileKey)
	if err != nil {
		return Document{}, nil, fmt.Errorf("open file key=%s: %w", doc.FileKey, err)
	}
	return doc, reader, nil
}

// Delete removes the document row first, then the backing file best-effort.
// A failed file removal leaves an orphaned file, never a broken document.
func (s *Service) Delete(ctx context.Context, userId, documentID string) error {
	doc, err := s.owned(ctx, userId, documentID)
	if err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, doc.ID); err != nil {
		return err
	}

	// Postgres cascades the signature row; the memory lookup needs a nudge.
	if deleter, ok := s.Signatures.(interface {
		DeleteForDocument(ctx context.Context, documentID string) error
	}); ok {
		_ = deleter.DeleteForDocument(ctx, doc.ID)
	}

	if err := s.Store.Delete(ctx, doc.FileKey); err != nil {
		telemetry.Warn("document.orphan_file", map[string]any{
			"document_id": doc.ID,
			"file_key":    doc.FileKey,
			"error":       err.Error(),
		})
	}
	return nil
}

func (s *Service) owned(ctx context.Context, userId, documentID string) (Document, error) {
	if userId == "" || documentID == "" {
		return Document{}, ErrInvalidInput
	}
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	if doc.UserID != userId {
		return Document{}, ErrForbidden
	}
	return doc, nil
}

func normalizeMimeType(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}
