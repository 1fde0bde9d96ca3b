package interfaces

import "errors"

// Sentinel errors shared across storage and service implementations.
var (
	// ErrKeyNotFound is returned when a key/value pair does not exist
	ErrKeyNotFound = errors.New("key not found")

	// ErrNotFound is returned when a stored artifact or record does not exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicateRepo is returned when a history record already exists for
	// the same user and repository URL
	ErrDuplicateRepo = errors.New("repository already processed for user")

	// ErrReviewPending is returned when a human review loop has not reached a
	// terminal state yet
	ErrReviewPending = errors.New("human review still pending")
)
