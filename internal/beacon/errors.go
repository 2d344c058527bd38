package beacon

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPattern is returned for a path pattern that cannot compile.
	ErrInvalidPattern = errors.New("invalid path pattern")

	// ErrInvalidDefinition is wrapped by ValidationError.
	ErrInvalidDefinition = errors.New("invalid beacon definition")
)

// ParseError represents an error while parsing a definition file.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError collects every problem found in a definition file.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid beacon definition: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid beacon definition: %d problems: %s",
		len(e.Problems), strings.Join(e.Problems, "; "))
}

// Unwrap returns ErrInvalidDefinition.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidDefinition
}
