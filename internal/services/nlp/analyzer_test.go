package nlp

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"
	"github.com/ternarybob/scribo/internal/common"
)

// fakeComprehend returns canned responses so scoring can be exercised
// without AWS access
type fakeComprehend struct {
	sentiment   types.SentimentType
	positive    float32
	neutral     float32
	entityCount int
	phrases     []scoredPhrase
	nounRatio   float64
	verbRatio   float64
	tokens      int
	fail        bool
}

func (f *fakeComprehend) DetectSentiment(ctx context.Context, params *comprehend.DetectSentimentInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectSentimentOutput, error) {
	if f.fail {
		return nil, fmt.Errorf("comprehend unavailable")
	}
	return &comprehend.DetectSentimentOutput{
		Sentiment: f.sentiment,
		SentimentScore: &types.SentimentScore{
			Positive: &f.positive,
			Neutral:  &f.neutral,
		},
	}, nil
}

func (f *fakeComprehend) DetectEntities(ctx context.Context, params *comprehend.DetectEntitiesInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectEntitiesOutput, error) {
	if f.fail {
		return nil, fmt.Errorf("comprehend unavailable")
	}
	out := &comprehend.DetectEntitiesOutput{}
	score := float32(0.95)
	for i := 0; i < f.entityCount; i++ {
		text := fmt.Sprintf("Entity%d", i)
		out.Entities = append(out.Entities, types.Entity{Text: &text, Score: &score})
	}
	return out, nil
}

func (f *fakeComprehend) DetectKeyPhrases(ctx context.Context, params *comprehend.DetectKeyPhrasesInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectKeyPhrasesOutput, error) {
	if f.fail {
		return nil, fmt.Errorf("comprehend unavailable")
	}
	out := &comprehend.DetectKeyPhrasesOutput{}
	for _, p := range f.phrases {
		text := p.text
		score := float32(p.score)
		out.KeyPhrases = append(out.KeyPhrases, types.KeyPhrase{Text: &text, Score: &score})
	}
	return out, nil
}

func (f *fakeComprehend) DetectSyntax(ctx context.Context, params *comprehend.DetectSyntaxInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectSyntaxOutput, error) {
	if f.fail {
		return nil, fmt.Errorf("comprehend unavailable")
	}
	out := &comprehend.DetectSyntaxOutput{}
	nouns := int(f.nounRatio * float64(f.tokens))
	verbs := int(f.verbRatio * float64(f.tokens))
	for i := 0; i < f.tokens; i++ {
		tag := types.PartOfSpeechTagTypeAdj
		if i < nouns {
			tag = types.PartOfSpeechTagTypeNoun
		} else if i < nouns+verbs {
			tag = types.PartOfSpeechTagTypeVerb
		}
		out.SyntaxTokens = append(out.SyntaxTokens, types.SyntaxToken{
			PartOfSpeech: &types.PartOfSpeechTag{Tag: tag},
		})
	}
	return out, nil
}

func testConfig() *common.NLPConfig {
	return &common.NLPConfig{Enabled: true, Region: "us-east-1", LanguageCode: "en"}
}

func TestAssessScoreIsBoundedAtCaps(t *testing.T) {
	// Everything maxed: professional sentiment, >10 entities, perfect
	// phrases, ideal syntax ratios. Score must not exceed 100.
	fake := &fakeComprehend{
		sentiment:   types.SentimentTypePositive,
		positive:    0.9,
		neutral:     0.05,
		entityCount: 25,
		phrases: []scoredPhrase{
			{text: "getting started with installation", score: 1.0},
			{text: "robust API framework", score: 1.0},
		},
		nounRatio: 0.3,
		verbRatio: 0.2,
		tokens:    100,
	}

	analyzer := newAnalyzerWithClient(fake, testConfig(), common.GetLogger())
	assessment, err := analyzer.Assess(context.Background(), "A robust API framework. Getting started is easy.", "acme/repo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Overall > 100.0 {
		t.Errorf("overall score %v exceeds 100", assessment.Overall)
	}
	if assessment.Overall < 90.0 {
		t.Errorf("maxed inputs should score high, got %v", assessment.Overall)
	}
	if assessment.EntityScore > 100.0 {
		t.Errorf("entity component %v exceeds 100 despite %d entities", assessment.EntityScore, fake.entityCount)
	}
	if assessment.Source != "comprehend" {
		t.Errorf("source: got %q", assessment.Source)
	}
}

func TestAssessFallbackWhenAllCallsFail(t *testing.T) {
	analyzer := newAnalyzerWithClient(&fakeComprehend{fail: true}, testConfig(), common.GetLogger())
	assessment, err := analyzer.Assess(context.Background(), "content", "acme/repo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assessment.Overall != 60.0 {
		t.Errorf("fallback score: got %v, want 60", assessment.Overall)
	}
	if assessment.Source != "fallback" {
		t.Errorf("source: got %q, want fallback", assessment.Source)
	}
}

func TestAssessDisabledReturnsFallback(t *testing.T) {
	analyzer := newAnalyzerWithClient(nil, &common.NLPConfig{Enabled: false}, common.GetLogger())
	assessment, err := analyzer.Assess(context.Background(), "content", "acme/repo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assessment.Source != "fallback" {
		t.Errorf("source: got %q, want fallback", assessment.Source)
	}
}

func TestPhraseRelevance(t *testing.T) {
	tests := []struct {
		phrase string
		want   float64
	}{
		{"plain phrase", 0.5},
		{"robust architecture", 0.8},
		{"getting started guide", 0.9},
		{"a very long phrase that has way too many words inside", 0.3},
		{"how to install this robust framework quickly and easily today", 1.0},
	}

	for _, tt := range tests {
		got := PhraseRelevance(tt.phrase)
		if got < 0.1 || got > 1.0 {
			t.Errorf("%q: relevance %v outside [0.1, 1.0]", tt.phrase, got)
		}
		if diff := got - tt.want; diff > 0.0001 || diff < -0.0001 {
			t.Errorf("%q: got %v, want %v", tt.phrase, got, tt.want)
		}
	}
}
