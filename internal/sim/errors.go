package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a runner configuration that cannot be used.
	ErrInvalidConfig = errors.New("sim: invalid config")
)

// FrameError wraps a scene or emission failure with the frame it occurred on.
type FrameError struct {
	Scene   string
	Frame   int
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("sim: %s frame %d: %v", e.Scene, e.Frame, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
