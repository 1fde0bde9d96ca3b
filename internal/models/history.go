package models

import "time"

// History record statuses
const (
	HistoryStatusProcessing = "processing"
	HistoryStatusCompleted  = "completed"
	HistoryStatusInReview   = "in_review"
	HistoryStatusFailed     = "failed"
)

// HistoryRecord is one generation run in a user's history, keyed by
// (UserID, RequestID). RepoURL backs duplicate detection on create.
type HistoryRecord struct {
	UserID    string `json:"userId" badgerhold:"index"`
	RequestID string `json:"requestId"`

	RepoURL  string `json:"repoUrl" badgerhold:"index"`
	RepoName string `json:"repoName"`
	Status   string `json:"status"`

	ProjectType     string   `json:"projectType,omitempty"`
	PrimaryLanguage string   `json:"primaryLanguage,omitempty"`
	Frameworks      []string `json:"frameworks,omitempty"`

	QualityScore float64 `json:"qualityScore,omitempty"`
	ReadmeKey    string  `json:"readmeKey,omitempty"`
	ReadmeURL    string  `json:"readmeUrl,omitempty"`

	ProcessingTime float64   `json:"processingTime,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Key returns the composite storage key for this record
func (h *HistoryRecord) Key() string {
	return h.UserID + "/" + h.RequestID
}
