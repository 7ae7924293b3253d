package signatures

import "time"

// Signature records who signed a document, with what image, and when.
// At most one signature exists per document.
type Signature struct {
	ID            string
	DocumentID    string
	UserID        string
	SignatureData string
	SignedAt      time.Time
}
