package journal

import "errors"

var (
	// ErrInvalidEventLog marks a journal file with a corrupt or blank line.
	// Reads fail rather than skip, so a damaged journal is never silently
	// reinterpreted.
	ErrInvalidEventLog = errors.New("invalid event log")

	// ErrEventNotFound marks a lookup by id that matched nothing.
	ErrEventNotFound = errors.New("event not found")
)
