package rsvp

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned for any token or household that does not resolve.
// It deliberately carries no detail about what was missing.
var ErrNotFound = errors.New("invitation not found")

// ValidationError rejects a submission before anything is written.
type ValidationError struct {
	Reason  string
	GuestID uuid.UUID
	EventID uuid.UUID
}

func (e *ValidationError) Error() string {
	return "invalid submission: " + e.Reason
}

// PersistenceError wraps a storage failure. The operation that produced it
// left no partial state behind and may be retried with the same input.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNotFound
	KindValidation
	KindPersistence
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	default:
		return "persistence"
	}
}

// KindOf classifies err. Unknown errors are treated as persistence failures
// so callers always offer a retry rather than a terminal message.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return KindValidation
	}
	return KindPersistence
}

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
