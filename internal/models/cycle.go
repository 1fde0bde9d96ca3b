package models

import (
	"fmt"
	"time"
)

// ActionType identifies one of the five refinement actions the agent can
// take in a generation cycle. The set is closed: dispatch is exhaustive
// and an unrecognized value is a parse error at the reasoning boundary.
type ActionType string

const (
	ActionAnalyzeStructure ActionType = "analyze_structure"
	ActionEnhanceContent   ActionType = "enhance_content"
	ActionValidateQuality  ActionType = "validate_quality"
	ActionGenerateSection  ActionType = "generate_section"
	ActionOptimizeLanguage ActionType = "optimize_language"
)

// ParseActionType validates a raw action string against the closed set
func ParseActionType(raw string) (ActionType, error) {
	switch ActionType(raw) {
	case ActionAnalyzeStructure, ActionEnhanceContent, ActionValidateQuality,
		ActionGenerateSection, ActionOptimizeLanguage:
		return ActionType(raw), nil
	}
	return "", fmt.Errorf("unknown action type %q", raw)
}

// AgentAction is one planned step in a generation cycle
type AgentAction struct {
	Type      ActionType        `json:"type"`
	Reasoning string            `json:"reasoning,omitempty"`
	Params    map[string]string `json:"params,omitempty"`
}

// CycleRecord is the immutable record of one completed generation cycle.
// Records are appended to the run context and never mutated afterwards.
type CycleRecord struct {
	Cycle     int           `json:"cycle"`
	Action    AgentAction   `json:"action"`
	Score     float64       `json:"score"`
	Succeeded bool          `json:"succeeded"`
	Duration  time.Duration `json:"duration"`
	Notes     string        `json:"notes,omitempty"`
}

// RunContext carries the full state of a generation run through the agent
// loop. It is passed explicitly between cycle functions; each cycle reads
// the prior records and appends exactly one new CycleRecord.
type RunContext struct {
	RequestID string              `json:"request_id"`
	UserID    string              `json:"user_id"`
	Analysis  *RepositoryAnalysis `json:"analysis"`
	Draft     *DraftStructure     `json:"draft"`

	// Content is the current rendered README markdown
	Content string `json:"content"`

	Cycles    []CycleRecord `json:"cycles"`
	Failures  int           `json:"failures"`
	BestScore float64       `json:"best_score"`
	StartedAt time.Time     `json:"started_at"`
}

// LastScore returns the score of the most recent cycle, 0 before any cycle
func (rc *RunContext) LastScore() float64 {
	if len(rc.Cycles) == 0 {
		return 0
	}
	return rc.Cycles[len(rc.Cycles)-1].Score
}

// Append records a completed cycle and updates failure and best-score
// bookkeeping
func (rc *RunContext) Append(record CycleRecord) {
	rc.Cycles = append(rc.Cycles, record)
	if !record.Succeeded {
		rc.Failures++
	}
	if record.Score > rc.BestScore {
		rc.BestScore = record.Score
	}
}
