package tracker

import "errors"

var (
	// ErrEmptySelector is returned when subscribing without a selector.
	ErrEmptySelector = errors.New("selector cannot be empty")

	// ErrNilCallback is returned when subscribing without a callback.
	ErrNilCallback = errors.New("callback cannot be nil")
)
