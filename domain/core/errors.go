package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)
	ErrColumnNotFound  = fmt.Errorf("%w: column", ErrNotFound)

	// Load errors
	ErrLoadFailed = errors.New("upload could not be parsed as CSV or XLSX")

	// Filter errors
	ErrKindMismatch  = errors.New("filter kind does not match column kind")
	ErrInvalidFilter = errors.New("invalid filter")
)

// Error constructors with context
func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %q", ErrColumnNotFound, column)
}

func NewKindMismatchError(column string, want, got string) error {
	return fmt.Errorf("%w: column %q is %s, filter expects %s", ErrKindMismatch, column, got, want)
}

func NewLoadError(csvErr, xlsxErr error) error {
	return fmt.Errorf("%w (csv: %v; xlsx: %v)", ErrLoadFailed, csvErr, xlsxErr)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsLoadError(err error) bool {
	return errors.Is(err, ErrLoadFailed)
}

func IsFilterError(err error) bool {
	return errors.Is(err, ErrKindMismatch) || errors.Is(err, ErrInvalidFilter)
}
