package nlp

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/models"
)

// comprehendMaxBytes is the per-call text limit Comprehend accepts
const comprehendMaxBytes = 5000

// entityConfidenceThreshold filters low-confidence entities
const entityConfidenceThreshold = 0.8

// comprehendAPI is the subset of the Comprehend client the analyzer uses
type comprehendAPI interface {
	DetectSentiment(ctx context.Context, params *comprehend.DetectSentimentInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectSentimentOutput, error)
	DetectEntities(ctx context.Context, params *comprehend.DetectEntitiesInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectEntitiesOutput, error)
	DetectKeyPhrases(ctx context.Context, params *comprehend.DetectKeyPhrasesInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectKeyPhrasesOutput, error)
	DetectSyntax(ctx context.Context, params *comprehend.DetectSyntaxInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectSyntaxOutput, error)
}

// Analyzer scores README content with Amazon Comprehend. Each sub-call
// degrades independently: a failed call contributes its neutral default
// instead of failing the assessment, and a fully unreachable backend
// yields the 60.0 fallback assessment.
type Analyzer struct {
	client       comprehendAPI
	config       *common.NLPConfig
	logger       arbor.ILogger
	languageCode types.LanguageCode
}

// professionalKeywords feed phrase relevance scoring
var professionalKeywords = [][]string{
	{"innovative", "robust", "scalable", "efficient", "secure", "professional", "comprehensive"},
	{"api", "framework", "architecture", "implementation", "integration", "deployment"},
	{"build", "create", "develop", "implement", "deploy", "configure", "optimize"},
}

// actionPhrases boost how-to oriented key phrases
var actionPhrases = []string{"how to", "getting started", "installation", "usage"}

// NewAnalyzer creates a Comprehend-backed analyzer. When the config
// disables NLP the analyzer always returns the fallback assessment.
func NewAnalyzer(ctx context.Context, config *common.NLPConfig, logger arbor.ILogger) (*Analyzer, error) {
	analyzer := &Analyzer{
		config:       config,
		logger:       logger,
		languageCode: types.LanguageCode(orDefault(config.LanguageCode, "en")),
	}

	if !config.Enabled {
		logger.Info().Msg("NLP scoring disabled, quality assessments will use the neutral fallback")
		return analyzer, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(orDefault(config.Region, "us-east-1")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for Comprehend: %w", err)
	}

	analyzer.client = comprehend.NewFromConfig(awsCfg)
	logger.Debug().
		Str("region", config.Region).
		Str("language", config.LanguageCode).
		Msg("Comprehend analyzer initialized")

	return analyzer, nil
}

// newAnalyzerWithClient wires a custom client, used by tests
func newAnalyzerWithClient(client comprehendAPI, config *common.NLPConfig, logger arbor.ILogger) *Analyzer {
	return &Analyzer{
		client:       client,
		config:       config,
		logger:       logger,
		languageCode: types.LanguageCode(orDefault(config.LanguageCode, "en")),
	}
}

// Assess analyzes README content and returns a 0-100 quality assessment
func (a *Analyzer) Assess(ctx context.Context, content string, repoName string) (*models.QualityAssessment, error) {
	if a.client == nil || !a.config.Enabled {
		return models.FallbackAssessment(), nil
	}

	text := truncate(content, comprehendMaxBytes)

	sentiment, sentimentErr := a.analyzeSentiment(ctx, text)
	entities, entitiesErr := a.detectEntities(ctx, text)
	phrases, phrasesErr := a.extractKeyPhrases(ctx, text)
	syntax, syntaxErr := a.analyzeSyntax(ctx, text)

	if sentimentErr != nil && entitiesErr != nil && phrasesErr != nil && syntaxErr != nil {
		a.logger.Warn().
			Err(sentimentErr).
			Str("repo", repoName).
			Msg("All Comprehend calls failed, using fallback assessment")
		return models.FallbackAssessment(), nil
	}

	assessment := a.score(sentiment, entities, phrases, syntax)
	assessment.Recommendations = a.recommendations(sentiment, entities, phrases, syntax, content)

	a.logger.Info().
		Str("repo", repoName).
		Float64("score", assessment.Overall).
		Str("sentiment", assessment.Sentiment).
		Int("entities", assessment.EntityCount).
		Msg("Content quality assessed")

	return assessment, nil
}

// HealthCheck probes the Comprehend backend with a minimal request
func (a *Analyzer) HealthCheck(ctx context.Context) error {
	if !a.config.Enabled {
		return nil
	}
	if a.client == nil {
		return fmt.Errorf("comprehend client not initialized")
	}
	_, err := a.client.DetectSentiment(ctx, &comprehend.DetectSentimentInput{
		Text:         strPtr("health check"),
		LanguageCode: a.languageCode,
	})
	if err != nil {
		return fmt.Errorf("comprehend health check failed: %w", err)
	}
	return nil
}

// sentimentResult carries the professional-tone decision
type sentimentResult struct {
	sentiment      string
	isProfessional bool
	confidence     float64
}

func (a *Analyzer) analyzeSentiment(ctx context.Context, text string) (*sentimentResult, error) {
	out, err := a.client.DetectSentiment(ctx, &comprehend.DetectSentimentInput{
		Text:         &text,
		LanguageCode: a.languageCode,
	})
	if err != nil {
		a.logger.Debug().Err(err).Msg("Sentiment analysis failed, using neutral default")
		return &sentimentResult{sentiment: "NEUTRAL", isProfessional: true, confidence: 0.5}, err
	}

	sentiment := string(out.Sentiment)
	var positive, neutral, maxScore float64
	if out.SentimentScore != nil {
		positive = float64(deref(out.SentimentScore.Positive))
		neutral = float64(deref(out.SentimentScore.Neutral))
		for _, v := range []float64{
			positive, neutral,
			float64(deref(out.SentimentScore.Negative)),
			float64(deref(out.SentimentScore.Mixed)),
		} {
			if v > maxScore {
				maxScore = v
			}
		}
	}

	// Professional content is neutral to positive in tone
	isProfessional := (sentiment == "NEUTRAL" || sentiment == "POSITIVE") && positive+neutral > 0.7

	return &sentimentResult{
		sentiment:      sentiment,
		isProfessional: isProfessional,
		confidence:     maxScore,
	}, nil
}

// scoredEntity is an entity that passed the confidence threshold
type scoredEntity struct {
	text  string
	score float64
}

func (a *Analyzer) detectEntities(ctx context.Context, text string) ([]scoredEntity, error) {
	out, err := a.client.DetectEntities(ctx, &comprehend.DetectEntitiesInput{
		Text:         &text,
		LanguageCode: a.languageCode,
	})
	if err != nil {
		a.logger.Debug().Err(err).Msg("Entity detection failed")
		return nil, err
	}

	var entities []scoredEntity
	for _, entity := range out.Entities {
		if float64(deref(entity.Score)) >= entityConfidenceThreshold {
			entities = append(entities, scoredEntity{
				text:  strings.TrimSpace(derefStr(entity.Text)),
				score: float64(deref(entity.Score)),
			})
		}
	}
	return entities, nil
}

// scoredPhrase pairs a key phrase confidence with its README relevance
type scoredPhrase struct {
	text      string
	score     float64
	relevance float64
}

func (a *Analyzer) extractKeyPhrases(ctx context.Context, text string) ([]scoredPhrase, error) {
	out, err := a.client.DetectKeyPhrases(ctx, &comprehend.DetectKeyPhrasesInput{
		Text:         &text,
		LanguageCode: a.languageCode,
	})
	if err != nil {
		a.logger.Debug().Err(err).Msg("Key phrase extraction failed")
		return nil, err
	}

	var phrases []scoredPhrase
	for _, phrase := range out.KeyPhrases {
		phraseText := derefStr(phrase.Text)
		phrases = append(phrases, scoredPhrase{
			text:      phraseText,
			score:     float64(deref(phrase.Score)),
			relevance: PhraseRelevance(phraseText),
		})
	}
	return phrases, nil
}

// syntaxMetrics carries the part-of-speech ratios used for readability
type syntaxMetrics struct {
	nounRatio   float64
	verbRatio   float64
	totalTokens int
}

func (a *Analyzer) analyzeSyntax(ctx context.Context, text string) (*syntaxMetrics, error) {
	out, err := a.client.DetectSyntax(ctx, &comprehend.DetectSyntaxInput{
		Text:         &text,
		LanguageCode: types.SyntaxLanguageCode(a.languageCode),
	})
	if err != nil {
		a.logger.Debug().Err(err).Msg("Syntax analysis failed")
		return nil, err
	}

	var nouns, verbs int
	total := len(out.SyntaxTokens)
	for _, token := range out.SyntaxTokens {
		if token.PartOfSpeech == nil {
			continue
		}
		switch token.PartOfSpeech.Tag {
		case types.PartOfSpeechTagTypeNoun:
			nouns++
		case types.PartOfSpeechTagTypeVerb:
			verbs++
		}
	}

	metrics := &syntaxMetrics{totalTokens: total}
	if total > 0 {
		metrics.nounRatio = float64(nouns) / float64(total)
		metrics.verbRatio = float64(verbs) / float64(total)
	}
	return metrics, nil
}

// PhraseRelevance scores a key phrase for README usefulness on [0.1, 1.0].
// Base 0.5, +0.3 for a professional keyword, +0.4 for how-to phrasing,
// -0.2 for phrases longer than six words.
func PhraseRelevance(phrase string) float64 {
	lower := strings.ToLower(phrase)
	relevance := 0.5

	for _, keywords := range professionalKeywords {
		matched := false
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				relevance += 0.3
				matched = true
				break
			}
		}
		if matched {
			break
		}
	}

	if len(strings.Fields(phrase)) > 6 {
		relevance -= 0.2
	}

	for _, action := range actionPhrases {
		if strings.Contains(lower, action) {
			relevance += 0.4
			break
		}
	}

	if relevance > 1.0 {
		relevance = 1.0
	}
	if relevance < 0.1 {
		relevance = 0.1
	}
	return relevance
}

// score combines the four analyses with equal 25-point weights.
// Failed sub-calls arrive as nil and contribute their neutral defaults.
func (a *Analyzer) score(sentiment *sentimentResult, entities []scoredEntity, phrases []scoredPhrase, syntax *syntaxMetrics) *models.QualityAssessment {
	assessment := &models.QualityAssessment{Source: "comprehend"}

	// Sentiment (25%)
	var sentimentPoints float64
	if sentiment != nil {
		assessment.Sentiment = sentiment.sentiment
		if sentiment.isProfessional {
			sentimentPoints = 25.0
		} else {
			sentimentPoints = sentiment.confidence * 15.0
		}
	} else {
		sentimentPoints = 15.0
	}

	// Entity richness (25%): 2.5 points per entity, capped at 10 entities
	entityPoints := float64(len(entities)) * 2.5
	if entityPoints > 25.0 {
		entityPoints = 25.0
	}
	assessment.EntityCount = len(entities)

	// Key phrase quality (25%)
	var phrasePoints float64
	if len(phrases) > 0 {
		var sum float64
		for _, p := range phrases {
			sum += p.score * p.relevance
		}
		phrasePoints = sum / float64(len(phrases)) * 25.0
	}
	assessment.KeyPhraseCount = len(phrases)

	// Syntax quality (25%): balanced noun/verb ratios indicate clear writing
	var syntaxPoints float64
	if syntax != nil && syntax.totalTokens > 0 {
		if syntax.nounRatio >= 0.2 && syntax.nounRatio <= 0.4 &&
			syntax.verbRatio >= 0.1 && syntax.verbRatio <= 0.3 {
			syntaxPoints = 25.0
		} else {
			syntaxPoints = 15.0
		}
	}

	assessment.SentimentScore = sentimentPoints * 4.0
	assessment.EntityScore = entityPoints * 4.0
	assessment.KeyPhraseScore = phrasePoints * 4.0
	assessment.SyntaxScore = syntaxPoints * 4.0

	total := sentimentPoints + entityPoints + phrasePoints + syntaxPoints
	if total > 100.0 {
		total = 100.0
	}
	assessment.Overall = total

	return assessment
}

// recommendations produces textual improvement hints from the analyses
func (a *Analyzer) recommendations(sentiment *sentimentResult, entities []scoredEntity, phrases []scoredPhrase, syntax *syntaxMetrics, content string) []string {
	var recs []string

	if sentiment != nil && !sentiment.isProfessional {
		recs = append(recs, "Consider using more neutral or positive language for professional tone")
	}
	if len(entities) < 3 {
		recs = append(recs, "Add more specific technical terms and technologies to improve clarity")
	}
	if len(phrases) < 5 {
		recs = append(recs, "Include more descriptive phrases about features and benefits")
	}
	if syntax != nil {
		if syntax.nounRatio > 0.5 {
			recs = append(recs, "Reduce noun density for better readability")
		}
		if syntax.totalTokens > 0 && syntax.verbRatio < 0.1 {
			recs = append(recs, "Add more action words to make content more engaging")
		}
	}
	if len(content) < 100 {
		recs = append(recs, "Expand content with more detailed information")
	} else if len(content) > 2000 {
		recs = append(recs, "Consider breaking long content into smaller sections")
	}

	return recs
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func deref(f *float32) float32 {
	if f == nil {
		return 0
	}
	return *f
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}
