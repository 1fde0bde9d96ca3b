package review

import (
	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/models"
)

// Gate decides whether generated content needs human review.
// Decision rules, in order:
//   - scores below AlwaysBelow always go to review
//   - scores at or above NeverAtOrAbove never go to review
//   - in between, complex projects below ComplexBelow go to review
type Gate struct {
	config *common.ReviewConfig
}

// NewGate creates a review gate from configuration
func NewGate(config *common.ReviewConfig) *Gate {
	return &Gate{config: config}
}

// ShouldReview applies the gate decision to an assessment
func (g *Gate) ShouldReview(assessment *models.QualityAssessment, complexity string) bool {
	if !g.config.Enabled {
		return false
	}

	score := assessment.Overall

	if score < g.config.AlwaysBelow {
		return true
	}
	if score >= g.config.NeverAtOrAbove {
		return false
	}
	if complexity == "complex" && score < g.config.ComplexBelow {
		return true
	}
	return false
}
