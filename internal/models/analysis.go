package models

import "time"

// SecurityFinding represents one security issue detected during analysis
type SecurityFinding struct {
	File        string `json:"file"`
	Pattern     string `json:"pattern"`
	Description string `json:"description"`
}

// RepositoryAnalysis is the output of the analyze stage. It carries the
// classifier results, the security scan, and the initial draft structure,
// and is persisted as JSON in the artifact store between stages.
type RepositoryAnalysis struct {
	Owner     string    `json:"owner"`
	Repo      string    `json:"repo"`
	RepoURL   string    `json:"repo_url"`
	Branch    string    `json:"branch"`
	UserID    string    `json:"user_id"`
	RequestID string    `json:"request_id"`
	CreatedAt time.Time `json:"created_at"`

	Description     string         `json:"description,omitempty"`
	PrimaryLanguage string         `json:"primary_language"`
	Languages       map[string]int `json:"languages"`
	Frameworks      []string       `json:"frameworks"`
	Features        []string       `json:"features"`
	Architecture    string         `json:"architecture"`
	ProjectType     string         `json:"project_type"`
	Imports         []string       `json:"imports,omitempty"`

	// Complexity is "simple", "moderate" or "complex" and feeds the
	// human-review gate decision
	Complexity string `json:"complexity"`

	FileCount      int               `json:"file_count"`
	FetchedFiles   int               `json:"fetched_files"`
	FetchTruncated bool              `json:"fetch_truncated"`
	SecurityScore  float64           `json:"security_score"`
	Security       []SecurityFinding `json:"security_findings,omitempty"`

	Draft *DraftStructure `json:"draft,omitempty"`
}

// TechStack returns the combined language and framework list used for
// badge rendering and metadata emission
func (a *RepositoryAnalysis) TechStack() []string {
	stack := make([]string, 0, len(a.Frameworks)+1)
	if a.PrimaryLanguage != "" && a.PrimaryLanguage != "Unknown" {
		stack = append(stack, a.PrimaryLanguage)
	}
	stack = append(stack, a.Frameworks...)
	return stack
}
