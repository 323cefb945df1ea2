package stream

import (
	"errors"
	"fmt"
)

var (
	// ErrWrite matches every error returned by a failed Emit.
	ErrWrite = errors.New("stream: frame write failed")

	// ErrMalformed indicates input that is not a well-formed P6 frame.
	ErrMalformed = errors.New("stream: malformed frame")

	// ErrInvalidScale indicates a non-positive emission scale.
	ErrInvalidScale = errors.New("stream: scale must be positive")
)

// WriteError wraps a sink failure with the index of the frame being written.
type WriteError struct {
	Frame int
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("stream: write frame %d: %v", e.Frame, e.Err)
}

func (e *WriteError) Unwrap() []error {
	return []error{ErrWrite, e.Err}
}
