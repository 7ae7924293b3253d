package documents

import "time"

// Document statuses. SIGNED is terminal.
const (
	StatusPending = "PENDING"
	StatusSigned  = "SIGNED"
)

// Document represents an uploaded PDF owned by a user.
type Document struct {
	ID        string
	UserID    string
	Name      string
	FileKey   string
	MimeType  string
	SizeBytes int64
	PageCount int
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
