package location

import "errors"

// Sentinel errors, matched with errors.Is.
var (
	ErrEmptySourceID      = errors.New("location: synthetic source ID cannot be empty")
	ErrAbsolutePathSource = errors.New("location: synthetic source ID looks like an absolute path")
	ErrUNCPath            = errors.New("location: UNC paths are not supported")
	ErrAbsoluteJoinElement = errors.New("location: join element is absolute")
)
