package models

import "errors"

// Rejection categories shared by every package. Errors returned from the
// extraction core wrap exactly one of these, so callers can branch with
// errors.Is without parsing messages.
var (
	// ErrInvalidInput marks malformed configuration or arguments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCapacityExceeded marks a selection rejected because every palette
	// color is already in use.
	ErrCapacityExceeded = errors.New("selection capacity exceeded")

	// ErrOutOfBounds marks geometry that would index outside the stack.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrDegenerateAggregate marks averaging fewer than two curves or
	// normalizing a curve whose maximum is zero.
	ErrDegenerateAggregate = errors.New("degenerate aggregate")
)
