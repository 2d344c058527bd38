package anchor

import "errors"

var (
	// ErrUnknownPoint is returned when parsing an unsupported anchor point name.
	ErrUnknownPoint = errors.New("unknown anchor point")

	// ErrUnknownStrategy is returned when parsing an unsupported positioning strategy.
	ErrUnknownStrategy = errors.New("unknown positioning strategy")
)
