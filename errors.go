package stovokor

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat means an input value does not parse as the expected format.
// Callers treat it as non-fatal: the value is logged and passed through
// unmodified so a batch run survives a single bad record.
var ErrInvalidFormat = errors.New("invalid format")

// InternalError means a freshly generated value failed its own validation.
// This signals a bug in the generation logic rather than bad input, so it
// aborts the operation that triggered it instead of degrading.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s produced an invalid value, this is a bug in the generator or a registry mismatch: %s", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

// Is checks if the error is an internal consistency error
func (e *InternalError) Is(target error) bool {
	_, ok := target.(*InternalError)
	return ok
}
