package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a quarter label that is absent from the table.
	ErrNotFound = errors.New("quarter not found")

	// ErrInvertedRange reports an end quarter that precedes the start quarter.
	ErrInvertedRange = errors.New("end quarter precedes start quarter")

	// ErrUnknownRegion reports a region that is not a column of the table.
	ErrUnknownRegion = errors.New("unknown region")
)

// RangeError describes a rejected start/end selection. Kind is ErrNotFound or
// ErrInvertedRange, so callers can use errors.Is against either sentinel.
type RangeError struct {
	Kind  error
	Start string
	End   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range %q to %q: %v", e.Start, e.End, e.Kind)
}

func (e *RangeError) Unwrap() error { return e.Kind }
