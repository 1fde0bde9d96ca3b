package interfaces

import (
	"context"

	"github.com/ternarybob/scribo/internal/models"
)

// ReviewService manages the human-review gate for generated READMEs.
// Reviews are asynchronous: StartReview persists a pending loop, and the
// poller resolves it on a later tick. CheckReview returns ErrReviewPending
// until the loop reaches a terminal state.
type ReviewService interface {
	// ShouldReview applies the gate decision to a quality assessment
	ShouldReview(assessment *models.QualityAssessment, complexity string) bool

	// StartReview dispatches a human review loop for the given content and
	// persists a PendingReview record
	StartReview(ctx context.Context, req *models.ReviewRequest) (*models.PendingReview, error)

	// CheckReview returns the review outcome for a loop, or ErrReviewPending
	CheckReview(ctx context.Context, loopName string) (*models.ReviewResult, error)

	// CancelReview stops an in-flight review loop
	CancelReview(ctx context.Context, loopName string) error

	// HealthCheck verifies the review backend is reachable
	HealthCheck(ctx context.Context) error
}
