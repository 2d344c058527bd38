package dom

import "errors"

var (
	// ErrNotFound is returned when a selector matches no element.
	ErrNotFound = errors.New("element not found")

	// ErrInvalidRect is returned when a data-rect value cannot be parsed.
	ErrInvalidRect = errors.New("invalid rect")

	// ErrNoParent is returned when a fragment cannot be attached.
	ErrNoParent = errors.New("element cannot have children")
)
