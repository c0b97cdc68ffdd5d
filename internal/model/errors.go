package model

import (
	"errors"
	"fmt"

	"github.com/roach88/staticmodel/internal/value"
)

var (
	// ErrNotFound matches every *NotFoundError via errors.Is.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidUsage matches every *UsageError via errors.Is.
	ErrInvalidUsage = errors.New("invalid usage")
)

// NotFoundError is returned by Find, FindAll and FindByStrict when the
// requested records do not exist.
type NotFoundError struct {
	// Type is the name of the queried type.
	Type string

	// Key is the primary-key attribute name. Empty for FindByStrict.
	Key string

	// Values lists the requested keys that matched no record, in request
	// order.
	Values []value.Value

	// Conditions is the condition map given to FindByStrict.
	Conditions Conditions
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Key != "" && len(e.Values) > 0 {
		return fmt.Sprintf("couldn't find %s with %s=%s", e.Type, e.Key, value.List(e.Values))
	}
	if len(e.Conditions) > 0 {
		return fmt.Sprintf("couldn't find %s where %s", e.Type, e.Conditions)
	}
	return fmt.Sprintf("couldn't find %s", e.Type)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// UsageError is returned when a finder is called with arguments it cannot
// interpret: a missing condition map, a float condition value, a sequence
// passed to Find, or a record of the wrong type passed to Load.
type UsageError struct {
	// Op is the operation that rejected its arguments.
	Op string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Is reports whether target is ErrInvalidUsage.
func (e *UsageError) Is(target error) bool {
	return target == ErrInvalidUsage
}

// IsNotFound returns true if err is or wraps a *NotFoundError.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvalidUsage returns true if err is or wraps a *UsageError.
// Uses errors.As to handle wrapped errors.
func IsInvalidUsage(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

func usageError(op, format string, args ...any) *UsageError {
	return &UsageError{Op: op, Message: fmt.Sprintf(format, args...)}
}
