package models

import "errors"

// Validation failures. They never leave a machine in a changed state.
var (
	ErrLimitReached   = errors.New("button limit reached")
	ErrNameTooLong    = errors.New("name is too long")
	ErrNothingToClear = errors.New("nothing to clear")
	ErrNoButtons      = errors.New("no buttons to share")
	ErrUnknownRole    = errors.New("unknown role")
	ErrUnknownTheme   = errors.New("unknown theme")
)
