package signatures

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// GetByDocumentID returns the signature attached to a document.
func (r *PGRepo) GetByDocumentID(ctx context.Context, documentID string) (Signature, error) {
	const query = `
SELECT id, document_id, user_id, signature_data, signed_at
FROM signatures
WHERE document_id = $1
LIMIT 1`

	var sig Signature
	err := r.DB.QueryRowContext(ctx, query, documentID).Scan(
		&sig.ID,
		&sig.DocumentID,
		&sig.UserID,
		&sig.SignatureData,
		&sig.SignedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Signature{}, ErrNotFound
		}
		return Signature{}, err
	}
	return sig, nil
}

// ForDocuments returns the signatures for the given documents, keyed by document ID.
func (r *PGRepo) ForDocuments(ctx context.Context, documentIDs []string) (map[string]Signature, error) {
	out := make(map[string]Signature, len(documentIDs))
	if len(documentIDs) == 0 {
		return out, nil
	}

	query := `
SELECT id, document_id, user_id, signature_data, signed_at
FROM signatures
WHERE document_id = ANY($1)`

	rows, err := r.DB.QueryContext(ctx, query, pgTextArray(documentIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var sig Signature
		if err := rows.Scan(
			&sig.ID,
			&sig.DocumentID,
			&sig.UserID,
			&sig.SignatureData,
			&sig.SignedAt,
		); err != nil {
			return nil, err
		}
		out[sig.DocumentID] = sig
	}
	return out, rows.Err()
}

// pgTextArray renders a Postgres array literal; the pgx stdlib driver binds it
// as text for ANY($1) comparisons.
func pgTextArray(values []string) string {
	escaped := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, `"`, `\"`)
		escaped = append(escaped, `"`+v+`"`)
	}
	return "{" + strings.Join(escaped, ",") + "}"
}

var _ Repo = (*PGRepo)(nil)
