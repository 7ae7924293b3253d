package documents

import "errors"

var (
	ErrNotFound     = errors.New("document not found")
	ErrForbidden    = errors.New("document owned by another user")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidType  = errors.New("file type not allowed")
)
