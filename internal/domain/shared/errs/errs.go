// Package errs holds the error kinds every domain failure is classified under.
// Boundary layers map kinds to transport codes with errors.Is.
package errs

import "errors"

var (
	// ErrInvalidInput marks rejected arguments: negative counts, bad identifiers.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks identifiers that do not resolve in their store.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks capacity decisions that refuse the operation.
	ErrConflict = errors.New("conflict")
)

// Kind returns the kind err is classified under, or nil when it has none.
func Kind(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidInput):
		return ErrInvalidInput
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrConflict):
		return ErrConflict
	default:
		return nil
	}
}
