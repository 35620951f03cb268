package dynamo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates a particle with a NaN or Inf position.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a non-positive dt or a negative frame count.
	ErrInvalidConfig = errors.New("dynamo: invalid run configuration")
)

// FrameError wraps a sink failure with the frame it happened on.
type FrameError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
