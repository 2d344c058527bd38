package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrNoDocument indicates no document path was configured.
	ErrNoDocument = errors.New("no document configured")

	// ErrInvalidLogLevel indicates an unknown --log-level value.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// ComponentError reports a failure while setting up or running one part of
// the application.
type ComponentError struct {
	Component string // e.g. "config", "document", "beacons"
	Action    string
	Err       error
}

func (e *ComponentError) Error() string {
	if e == nil {
		return ""
	}
	if e.Action != "" {
		return fmt.Sprintf("%s: %s: %v", e.Component, e.Action, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Component, e.Err)
}

func (e *ComponentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
