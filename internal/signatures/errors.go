package signatures

import "errors"

var (
	ErrNotFound      = errors.New("signature not found")
	ErrAlreadySigned = errors.New("document already signed")
	ErrInvalidInput  = errors.New("invalid input")
)
