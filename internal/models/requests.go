package models

// AnalyzeRequest is the payload for the analyze stage
type AnalyzeRequest struct {
	RepoURL   string `json:"repoUrl" validate:"required,url"`
	UserID    string `json:"userId" validate:"required"`
	RequestID string `json:"requestId,omitempty"`
	Branch    string `json:"branch,omitempty"`

	// Force skips duplicate detection and regenerates
	Force bool `json:"force,omitempty"`
}

// GenerateRequest is the payload for the generate stage. The analysis is
// loaded from the artifact store by owner/repo.
type GenerateRequest struct {
	Owner     string `json:"owner" validate:"required"`
	Repo      string `json:"repo" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
	RequestID string `json:"requestId,omitempty"`
}

// GenerateResult is the data payload returned by the generate stage
type GenerateResult struct {
	Owner          string             `json:"owner"`
	Repo           string             `json:"repo"`
	RequestID      string             `json:"requestId"`
	ReadmeKey      string             `json:"readmeKey"`
	ReadmeURL      string             `json:"readmeUrl,omitempty"`
	QualityScore   float64            `json:"qualityScore"`
	Cycles         int                `json:"cycles"`
	ReviewRequired bool               `json:"reviewRequired"`
	ReviewLoop     string             `json:"reviewLoop,omitempty"`
	Assessment     *QualityAssessment `json:"assessment,omitempty"`
	ProcessingTime float64            `json:"processingTime"`
}
