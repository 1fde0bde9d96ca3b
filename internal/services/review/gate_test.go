package review

import (
	"testing"

	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/models"
)

func gateConfig(enabled bool) *common.ReviewConfig {
	return &common.ReviewConfig{
		Enabled:        enabled,
		AlwaysBelow:    85,
		NeverAtOrAbove: 95,
		ComplexBelow:   90,
	}
}

func assessmentOf(score float64) *models.QualityAssessment {
	return &models.QualityAssessment{Overall: score}
}

func TestShouldReviewBoundaries(t *testing.T) {
	gate := NewGate(gateConfig(true))

	tests := []struct {
		name       string
		score      float64
		complexity string
		want       bool
	}{
		{"just below always threshold", 84.9, "simple", true},
		{"at always threshold, simple", 85.0, "simple", false},
		{"at auto-approve threshold", 95.0, "complex", false},
		{"above auto-approve threshold", 99.0, "complex", false},
		{"complex below complex threshold", 89.0, "complex", true},
		{"complex at complex threshold", 90.0, "complex", false},
		{"moderate in between band", 89.0, "moderate", false},
		{"simple in between band", 92.0, "simple", false},
		{"very low score", 10.0, "simple", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gate.ShouldReview(assessmentOf(tt.score), tt.complexity)
			if got != tt.want {
				t.Errorf("score=%v complexity=%s: got %v, want %v", tt.score, tt.complexity, got, tt.want)
			}
		})
	}
}

func TestShouldReviewDisabled(t *testing.T) {
	gate := NewGate(gateConfig(false))
	if gate.ShouldReview(assessmentOf(10.0), "complex") {
		t.Error("disabled gate must never route to review")
	}
}
