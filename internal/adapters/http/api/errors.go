package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the HTTP layer.
var (
	// ErrBadRequest reports a malformed or incomplete request body.
	ErrBadRequest = errors.New("bad request")
	// ErrBackpressure reports a full rescore queue.
	ErrBackpressure = errors.New("rescore queue full")
)

// NewKind annotates a sentinel error with the operation that raised it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind annotates err with both the operation and a sentinel kind so
// callers can match the kind with errors.Is while keeping the cause.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// Wrap annotates err with the operation that raised it.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
