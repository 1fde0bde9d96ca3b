package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/models"
)

// ReviewStorage implements the ReviewStorage interface for Badger
type ReviewStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewReviewStorage creates a new ReviewStorage instance
func NewReviewStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ReviewStorage {
	return &ReviewStorage{
		db:     db,
		logger: logger,
	}
}

// SavePending inserts or updates a pending review keyed by loop name
func (s *ReviewStorage) SavePending(ctx context.Context, review *models.PendingReview) error {
	if review.LoopName == "" {
		return fmt.Errorf("pending review has no loop name")
	}
	if err := s.db.Store().Upsert(review.LoopName, review); err != nil {
		return fmt.Errorf("failed to save pending review: %w", err)
	}
	return nil
}

// GetPending retrieves a pending review by loop name
func (s *ReviewStorage) GetPending(ctx context.Context, loopName string) (*models.PendingReview, error) {
	var review models.PendingReview
	err := s.db.Store().Get(loopName, &review)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending review: %w", err)
	}
	return &review, nil
}

// ListOpen returns reviews still awaiting a terminal state
func (s *ReviewStorage) ListOpen(ctx context.Context) ([]*models.PendingReview, error) {
	var reviews []models.PendingReview
	err := s.db.Store().Find(&reviews, badgerhold.Where("Status").Eq(models.ReviewStatusPending).Index("Status"))
	if err != nil {
		return nil, fmt.Errorf("failed to list open reviews: %w", err)
	}

	out := make([]*models.PendingReview, len(reviews))
	for i := range reviews {
		out[i] = &reviews[i]
	}
	return out, nil
}

// Update persists a state change on a review
func (s *ReviewStorage) Update(ctx context.Context, review *models.PendingReview) error {
	return s.SavePending(ctx, review)
}
