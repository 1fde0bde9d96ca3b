package models

import "time"

// Pending review states. Pending is the only non-terminal state; the
// poller moves a review to exactly one terminal state.
const (
	ReviewStatusPending         = "pending"
	ReviewStatusCompleted       = "completed"
	ReviewStatusFailed          = "failed"
	ReviewStatusStopped         = "stopped"
	ReviewStatusTimeoutApproved = "timeout_approved"
)

// ReviewRequest carries the content and context dispatched to a human
// review loop
type ReviewRequest struct {
	UserID       string             `json:"user_id"`
	RequestID    string             `json:"request_id"`
	RepoName     string             `json:"repo_name"`
	Content      string             `json:"content"`
	ContentKey   string             `json:"content_key"`
	Assessment   *QualityAssessment `json:"assessment"`
	Complexity   string             `json:"complexity"`
	ReviewReason string             `json:"review_reason,omitempty"`
}

// PendingReview is the persisted state of an in-flight human review loop.
// It survives restarts; the scheduler resumes polling from storage.
type PendingReview struct {
	LoopName  string `json:"loop_name" badgerhold:"key"`
	UserID    string `json:"user_id"`
	RequestID string `json:"request_id"`
	RepoName  string `json:"repo_name"`

	Status    string    `json:"status" badgerhold:"index"`
	StartedAt time.Time `json:"started_at"`
	Deadline  time.Time `json:"deadline"`

	// ContentKey is the artifact store key of the content under review
	ContentKey string `json:"content_key"`

	Result *ReviewResult `json:"result,omitempty"`
}

// Open reports whether the review still needs polling
func (p *PendingReview) Open() bool {
	return p.Status == ReviewStatusPending
}

// ReviewResult is the terminal outcome of a human review loop.
// Score is on the canonical 0-100 scale.
type ReviewResult struct {
	LoopName    string    `json:"loop_name"`
	Status      string    `json:"status"`
	Score       float64   `json:"score"`
	Confidence  float64   `json:"confidence"`
	Feedback    string    `json:"feedback,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}
