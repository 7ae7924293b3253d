package signatures

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/documents"
)

func seedDocs(t *testing.T, doc documents.Document) *documents.MemoryRepo {
	t.Helper()
	repo := documents.NewMemoryRepo()
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("seed document: %v", err)
	}
	return repo
}

func TestSignCommitsStatusAndSignature(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	docs := seedDocs(t, documents.Document{
		ID:     "doc-1",
		UserID: "user-1",
		Status: documents.StatusPending,
	})
	svc := &Service{DB: db, Docs: docs, Repo: &PGRepo{DB: db}}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE documents SET").
		WithArgs(documents.StatusSigned, sqlmock.AnyArg(), "doc-1", documents.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO signatures").
		WithArgs(sqlmock.AnyArg(), "doc-1", "user-1", "sig-data", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sig, err := svc.Sign(context.Background(), "user-1", "doc-1", "sig-data")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if sig.DocumentID != "doc-1" || sig.ID == "" {
		t.Fatalf("unexpected signature %+v", sig)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestSignConcurrentLoserGetsAlreadySigned(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// The repo still reports PENDING but another transaction wins the
	// guarded update, so zero rows change.
	docs := seedDocs(t, documents.Document{
		ID:     "doc-1",
		UserID: "user-1",
		Status: documents.StatusPending,
	})
	svc := &Service{DB: db, Docs: docs, Repo: &PGRepo{DB: db}}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE documents SET").
		WithArgs(documents.StatusSigned, sqlmock.AnyArg(), "doc-1", documents.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err = svc.Sign(context.Background(), "user-1", "doc-1", "sig-data")
	if !errors.Is(err, ErrAlreadySigned) {
		t.Fatalf("expected ErrAlreadySigned, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestSignInsertFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	docs := seedDocs(t, documents.Document{
		ID:     "doc-1",
		UserID: "user-1",
		Status: documents.StatusPending,
	})
	svc := &Service{DB: db, Docs: docs, Repo: &PGRepo{DB: db}}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE documents SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO signatures").
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	_, err = svc.Sign(context.Background(), "user-1", "doc-1", "sig-data")
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestSignRejectsEmptySignature(t *testing.T) {
	svc := &Service{Docs: documents.NewMemoryRepo(), Repo: NewMemoryRepo()}

	_, err := svc.Sign(context.Background(), "user-1", "doc-1", "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSignRejectsForeignDocument(t *testing.T) {
	docs := seedDocs(t, documents.Document{
		ID:     "doc-1",
		UserID: "user-1",
		Status: documents.StatusPending,
	})
	svc := &Service{Docs: docs, Repo: NewMemoryRepo()}

	_, err := svc.Sign(context.Background(), "user-2", "doc-1", "sig-data")
	if !errors.Is(err, documents.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestSignAlreadySignedDocument(t *testing.T) {
	docs := seedDocs(t, documents.Document{
		ID:     "doc-1",
		UserID: "user-1",
		Status: documents.StatusSigned,
	})
	svc := &Service{Docs: docs, Repo: NewMemoryRepo()}

	_, err := svc.Sign(context.Background(), "user-1", "doc-1", "sig-data")
	if !errors.Is(err, ErrAlreadySigned) {
		t.Fatalf("expected ErrAlreadySigned, got %v", err)
	}
}

func TestMemorySignIsIdempotentGuarded(t *testing.T) {
	docs := seedDocs(t, documents.Document{
		ID:     "doc-1",
		UserID: "user-1",
		Status: documents.StatusPending,
	})
	svc := &Service{Docs: docs, Repo: NewMemoryRepo()}

	if _, err := svc.Sign(context.Background(), "user-1", "doc-1", "sig-data"); err != nil {
		t.Fatalf("first sign: %v", err)
	}
	_, err := svc.Sign(context.Background(), "user-1", "doc-1", "sig-data")
	if !errors.Is(err, ErrAlreadySigned) {
		t.Fatalf("second sign: expected ErrAlreadySigned, got %v", err)
	}
}
