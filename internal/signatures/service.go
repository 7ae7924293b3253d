package signatures

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/documents"
)

// statusSetter is the memory-mode document status transition. The Postgres
// path runs the guarded UPDATE inside the sign transaction instead.
type statusSetter interface {
	SetStatus(ctx context.Context, documentID, from, to string) error
}

// Service contains the signing flow. DB is nil when running on memory repos.
type Service struct {
	DB   *sql.DB
	Docs documents.Repo
	Repo Repo
}

// Sign flips the document to SIGNED and records the signature atomically.
// Both writes happen in a single database transaction; a failure leaves the
// document PENDING with no signature row.
func (s *Service) Sign(ctx context.Context, userId, documentID, signatureData string) (Signature, error) {
	if strings.TrimSpace(signatureData) == "" {
		return Signature{}, ErrInvalidInput
	}

	doc, err := s.Docs.GetByID(ctx, documentID)
	if err != nil {
		return Signature{}, err
	}
	if doc.UserID != userId {
		return Signature{}, documents.ErrForbidden
	}
	if doc.Status == documents.StatusSigned {
		return Signature{}, ErrAlreadySigned
	}

	sig := Signature{
		ID:            uuid.NewString(),
		DocumentID:    doc.ID,
		UserID:        userId,
		SignatureData: signatureData,
		SignedAt:      time.Now().UTC(),
	}

	if s.DB != nil {
		if err := s.signWithTx(ctx, sig); err != nil {
			return Signature{}, err
		}
		return sig, nil
	}

	setter, ok := s.Docs.(statusSetter)
	if !ok {
		return Signature{}, errors.New("documents repo does not support status transitions")
	}
	if err := setter.SetStatus(ctx, doc.ID, documents.StatusPending, documents.StatusSigned); err != nil {
		if errors.Is(err, documents.ErrInvalidInput) {
			return Signature{}, ErrAlreadySigned
		}
		return Signature{}, err
	}

	creator, ok := s.Repo.(interface {
		Create(ctx context.Context, sig Signature) error
	})
	if !ok {
		return Signature{}, errors.New("signatures repo does not support direct inserts")
	}
	if err := creator.Create(ctx, sig); err != nil {
		return Signature{}, err
	}
	return sig, nil
}

func (s *Service) signWithTx(ctx context.Context, sig Signature) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sign tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE documents SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		documents.StatusSigned, sig.SignedAt, sig.DocumentID, documents.StatusPending,
	)
	if err != nil {
		return err
	}
	updated, _ := res.RowsAffected()
	if updated == 0 {
		return ErrAlreadySigned
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO signatures (id, document_id, user_id, signature_data, signed_at) VALUES ($1, $2, $3, $4, $5)`,
		sig.ID, sig.DocumentID, sig.UserID, sig.SignatureData, sig.SignedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}
