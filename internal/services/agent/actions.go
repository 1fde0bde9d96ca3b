package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/models"
)

// essentialSections are the draft sections structure scoring requires
var essentialSections = []string{
	models.SectionProjectOverview,
	models.SectionTechnicalStack,
	models.SectionInstallation,
	models.SectionUsage,
}

// shortSectionBytes marks a present section as incomplete below this size
const shortSectionBytes = 80

// Executor runs individual refinement actions against a run context.
// Every action returns a 0-100 quality score; an error marks the action
// as failed for the cycle's failure accounting.
type Executor struct {
	llm      interfaces.LLMService
	analyzer interfaces.TextAnalyzer
	logger   arbor.ILogger
}

// NewExecutor creates an action executor
func NewExecutor(llm interfaces.LLMService, analyzer interfaces.TextAnalyzer, logger arbor.ILogger) *Executor {
	return &Executor{llm: llm, analyzer: analyzer, logger: logger}
}

// Execute dispatches one action. The action set is closed; dispatch is
// exhaustive over the parsed ActionType.
func (e *Executor) Execute(ctx context.Context, action models.AgentAction, rc *models.RunContext) (float64, error) {
	switch action.Type {
	case models.ActionAnalyzeStructure:
		return e.analyzeStructure(rc), nil
	case models.ActionEnhanceContent:
		return e.enhanceContent(ctx, action, rc)
	case models.ActionValidateQuality:
		return e.validateQuality(rc), nil
	case models.ActionGenerateSection:
		return e.generateSection(ctx, action, rc)
	case models.ActionOptimizeLanguage:
		return e.optimizeLanguage(ctx, action, rc), nil
	}
	return 0, fmt.Errorf("unknown action type %q", action.Type)
}

// analyzeStructure scores the draft's structural completeness: the share
// of essential sections present, reduced by 5 points per issue, floored
// at 60
func (e *Executor) analyzeStructure(rc *models.RunContext) float64 {
	present := 0
	issues := 0
	for _, key := range essentialSections {
		content := rc.Draft.Get(key)
		switch {
		case content == "":
			issues++
		case len(content) < shortSectionBytes:
			present++
			issues++
		default:
			present++
		}
	}

	completeness := float64(present) / float64(len(essentialSections)) * 100
	score := completeness - float64(issues)*5
	if score < 60 {
		score = 60
	}

	e.logger.Debug().
		Float64("completeness", completeness).
		Int("issues", issues).
		Msg("Structure analysis complete")
	return score
}

// enhanceContent rewrites a section for engagement and scores the result
// with the text analyzer. Analyzer and model failures degrade to fixed
// scores rather than failing the action.
func (e *Executor) enhanceContent(ctx context.Context, action models.AgentAction, rc *models.RunContext) (float64, error) {
	section := param(action, "section", models.SectionProjectOverview)
	content := rc.Draft.Get(section)
	if content == "" {
		return 60, nil
	}

	reply, err := e.llm.Chat(ctx, []interfaces.Message{
		{Role: "user", Content: enhancePrompt(section, content, rc.Analysis)},
	})
	if err != nil {
		e.logger.Warn().Err(err).Str("section", section).Msg("Content enhancement failed")
		return 0, err
	}
	if rewritten := strings.TrimSpace(reply); rewritten != "" {
		rc.Draft.Set(section, rewritten)
		content = rewritten
	}

	assessment, err := e.analyzer.Assess(ctx, content, rc.Analysis.Repo)
	if err != nil {
		e.logger.Warn().Err(err).Str("section", section).Msg("Text analysis unavailable, using fallback score")
		return 65, nil
	}
	return assessment.Overall, nil
}

// validateQuality scores the draft against weighted criteria:
// completeness and technical accuracy at 0.3 each, professional tone and
// usability at 0.2 each
func (e *Executor) validateQuality(rc *models.RunContext) float64 {
	completeness := e.validateCompleteness(rc)
	accuracy := e.validateTechnicalAccuracy(rc)
	tone := 85.0
	usability := e.validateUsability(rc)

	score := completeness*0.3 + accuracy*0.3 + tone*0.2 + usability*0.2

	e.logger.Debug().
		Float64("completeness", completeness).
		Float64("accuracy", accuracy).
		Float64("usability", usability).
		Float64("score", score).
		Msg("Quality validation complete")
	return score
}

func (e *Executor) validateCompleteness(rc *models.RunContext) float64 {
	present := 0
	for _, key := range essentialSections {
		if rc.Draft.Get(key) != "" {
			present++
		}
	}
	return float64(present) / float64(len(essentialSections)) * 100
}

func (e *Executor) validateTechnicalAccuracy(rc *models.RunContext) float64 {
	score := 85.0
	if rc.Analysis.PrimaryLanguage == "" || rc.Analysis.PrimaryLanguage == "Unknown" {
		score -= 15
	}
	if len(rc.Analysis.Frameworks) == 0 {
		score -= 10
	}
	if score < 60 {
		score = 60
	}
	return score
}

func (e *Executor) validateUsability(rc *models.RunContext) float64 {
	score := 80.0
	if rc.Draft.Get(models.SectionInstallation) == "" {
		score -= 20
	}
	if rc.Draft.Get(models.SectionUsage) == "" {
		score -= 15
	}
	if score < 50 {
		score = 50
	}
	return score
}

// generateSection writes one section through the model and stores it in
// the draft
func (e *Executor) generateSection(ctx context.Context, action models.AgentAction, rc *models.RunContext) (float64, error) {
	section := param(action, "section", models.SectionProjectOverview)
	focus := param(action, "focus", "")

	reply, err := e.llm.Chat(ctx, []interfaces.Message{
		{Role: "user", Content: sectionPrompt(section, focus, rc.Analysis)},
	})
	if err != nil {
		return 0, fmt.Errorf("section generation failed for %s: %w", section, err)
	}

	content := strings.TrimSpace(reply)
	if content == "" {
		return 0, fmt.Errorf("empty section generated for %s", section)
	}
	rc.Draft.Set(section, content)

	if len(content) > 100 {
		return 85, nil
	}
	return 70, nil
}

// optimizeLanguage polishes a section for the focus area. Scoring is 80
// plus 5 per optimization applied, capped at 95; a model failure skips
// the rewrite but keeps the action successful.
func (e *Executor) optimizeLanguage(ctx context.Context, action models.AgentAction, rc *models.RunContext) float64 {
	focus := param(action, "focus", "professional_tone")
	section := param(action, "section", models.SectionProjectOverview)

	applied := 0
	if focus == "professional_tone" || focus == "overall" {
		applied++
	}
	if focus == "technical_clarity" || focus == "overall" {
		applied++
	}
	if focus == "readability" || focus == "overall" {
		applied++
	}
	// Target audience is always developers
	applied++

	if content := rc.Draft.Get(section); content != "" {
		reply, err := e.llm.Chat(ctx, []interfaces.Message{
			{Role: "user", Content: optimizePrompt(content, focus)},
		})
		if err != nil {
			e.logger.Warn().Err(err).Str("section", section).Msg("Language optimization rewrite skipped")
		} else if polished := strings.TrimSpace(reply); polished != "" {
			rc.Draft.Set(section, polished)
		}
	}

	score := 80.0 + float64(applied)*5
	if score > 95 {
		score = 95
	}
	return score
}

func param(action models.AgentAction, key, fallback string) string {
	if action.Params != nil {
		if value, ok := action.Params[key]; ok && value != "" {
			return value
		}
	}
	return fallback
}
