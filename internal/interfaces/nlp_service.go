package interfaces

import (
	"context"

	"github.com/ternarybob/scribo/internal/models"
)

// TextAnalyzer scores README text quality on a 0-100 scale.
// Implementations must degrade gracefully: when the underlying NLP provider
// is unavailable they return a neutral assessment instead of an error.
type TextAnalyzer interface {
	// Assess analyzes the given README content for the named repository and
	// returns a quality assessment with component scores and recommendations.
	Assess(ctx context.Context, content string, repoName string) (*models.QualityAssessment, error)

	// HealthCheck verifies the analyzer backend is reachable
	HealthCheck(ctx context.Context) error
}
