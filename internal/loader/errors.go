package loader

import (
	"errors"
	"fmt"
)

// Error codes for LoadError.
const (
	ErrCodeGeneric           = "L001" // Generic/unknown error
	ErrCodeNotFound          = "L002" // File not found or unreadable
	ErrCodeUnsupportedFormat = "L003" // Unknown file extension
	ErrCodeDecode            = "L004" // Syntax or schema error in the file
	ErrCodeInvalidValue      = "L005" // Float, nested object or other unsupported value
	ErrCodeUnknownParent     = "L006" // extends names a type that does not exist
	ErrCodeCycle             = "L007" // extends chain loops
	ErrCodeDuplicateType     = "L008" // Type declared twice in one dataset
	ErrCodeTypeConflict      = "L009" // Existing type has a different parent
	ErrCodeInvalidType       = "L010" // Type without a name
)

// LoadError represents an error that occurred while reading or applying a
// dataset.
type LoadError struct {
	Code    string
	Path    string // Source file, empty for in-memory input
	Message string
	Err     error // Underlying cause, if any
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code of the LoadError in err's chain, or "" if
// there is none.
func ErrorCode(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

func newLoadError(code, path string, err error, format string, args ...any) *LoadError {
	return &LoadError{
		Code:    code,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}
