package content

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a lookup matched zero rows.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateSlug means an insert or update collided with an existing slug.
	ErrDuplicateSlug = errors.New("slug already in use")
	// ErrValidation covers malformed request bodies and ids. Field contents are not validated.
	ErrValidation = errors.New("invalid request")
)

// TransportError is a network, HTTP or database failure behind a collection call.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
