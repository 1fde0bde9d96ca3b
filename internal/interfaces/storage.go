package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/scribo/internal/models"
)

// KeyValuePair represents a stored key/value entry (API keys, settings)
type KeyValuePair struct {
	Key         string    `json:"key" badgerhold:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// KeyValueStorage defines key/value operations (case-insensitive keys)
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value, description string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]*KeyValuePair, error)
}

// ArtifactStorage persists pipeline artifacts (analysis JSON, generated
// READMEs) in an S3-compatible object store keyed by object path.
type ArtifactStorage interface {
	// Put stores an artifact under the given key with a content type and
	// optional user metadata
	Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error

	// Get retrieves an artifact; returns ErrNotFound when the key is absent
	Get(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether an artifact is present
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes an artifact
	Delete(ctx context.Context, key string) error

	// URL returns a time-limited retrieval URL for an artifact
	URL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// HistoryStorage persists generation history records keyed by user and
// request, with duplicate detection by repository URL.
type HistoryStorage interface {
	// Save inserts or updates a history record
	Save(ctx context.Context, record *models.HistoryRecord) error

	// Get retrieves a record by user and request ID
	Get(ctx context.Context, userID, requestID string) (*models.HistoryRecord, error)

	// FindByRepoURL returns the most recent record a user has for a
	// repository URL, or ErrNotFound
	FindByRepoURL(ctx context.Context, userID, repoURL string) (*models.HistoryRecord, error)

	// ListByUser returns a user's records ordered newest first
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.HistoryRecord, error)

	// UpdateStatus updates the status field of an existing record
	UpdateStatus(ctx context.Context, userID, requestID, status string) error
}

// ReviewStorage persists pending human-review loops so they survive
// restarts and can be resumed by the scheduler.
type ReviewStorage interface {
	// SavePending inserts or updates a pending review
	SavePending(ctx context.Context, review *models.PendingReview) error

	// GetPending retrieves a pending review by loop name
	GetPending(ctx context.Context, loopName string) (*models.PendingReview, error)

	// ListOpen returns reviews that have not reached a terminal state
	ListOpen(ctx context.Context) ([]*models.PendingReview, error)

	// Update persists a state change on a review
	Update(ctx context.Context, review *models.PendingReview) error
}

// StorageManager aggregates the storage interfaces behind one handle
type StorageManager interface {
	KeyValueStorage() KeyValueStorage
	ArtifactStorage() ArtifactStorage
	HistoryStorage() HistoryStorage
	ReviewStorage() ReviewStorage
	Close() error
}
