package domain

import "errors"

// Common domain errors.
var (
	ErrNoSteps      = errors.New("wizard needs at least one step")
	ErrFocusRunning = errors.New("focus session is running")
	ErrFocusStarted = errors.New("focus session already started, reset it first")
	ErrEmptyText    = errors.New("text cannot be empty")
	ErrItemNotFound = errors.New("item not found")
)
