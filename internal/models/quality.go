package models

// QualityAssessment is the NLP scorer output on the canonical 0-100 scale.
// All quality scores in the pipeline use this scale; the 1-5 human review
// criteria average is converted once at the review result mapping boundary.
type QualityAssessment struct {
	// Overall is the weighted composite score, 0-100
	Overall float64 `json:"overall"`

	// Component scores, each 0-100, weighted equally into Overall
	SentimentScore float64 `json:"sentiment_score"`
	EntityScore    float64 `json:"entity_score"`
	KeyPhraseScore float64 `json:"key_phrase_score"`
	SyntaxScore    float64 `json:"syntax_score"`

	// Source is "comprehend" for real analysis or "fallback" when the NLP
	// backend was unavailable and a neutral assessment was substituted
	Source string `json:"source"`

	Sentiment       string   `json:"sentiment,omitempty"`
	EntityCount     int      `json:"entity_count"`
	KeyPhraseCount  int      `json:"key_phrase_count"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// FallbackAssessment returns the neutral assessment used when the NLP
// backend cannot be reached
func FallbackAssessment() *QualityAssessment {
	return &QualityAssessment{
		Overall:        60.0,
		SentimentScore: 60.0,
		EntityScore:    60.0,
		KeyPhraseScore: 60.0,
		SyntaxScore:    60.0,
		Source:         "fallback",
		Recommendations: []string{
			"Quality analysis unavailable; manual review recommended",
		},
	}
}
