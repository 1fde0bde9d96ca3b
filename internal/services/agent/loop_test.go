package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/models"
	"github.com/ternarybob/scribo/internal/services/generator"
)

type scriptLLM struct {
	respond func(prompt string) (string, error)
}

func (s *scriptLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return s.respond(messages[len(messages)-1].Content)
}

func (s *scriptLLM) HealthCheck(ctx context.Context) error { return nil }
func (s *scriptLLM) GetMode() interfaces.LLMMode           { return interfaces.LLMModeStub }
func (s *scriptLLM) Close() error                          { return nil }

type stubAnalyzer struct {
	overall float64
}

func (a *stubAnalyzer) Assess(ctx context.Context, content, repoName string) (*models.QualityAssessment, error) {
	return &models.QualityAssessment{Overall: a.overall, Source: "stub"}, nil
}

func (a *stubAnalyzer) HealthCheck(ctx context.Context) error { return nil }

func pipelineConfig() *common.PipelineConfig {
	return &common.PipelineConfig{MaxCycles: 4, TargetQuality: 95, MaxFailures: 3}
}

func testRunContext() *models.RunContext {
	draft := models.NewDraftStructure()
	draft.Set(models.SectionProjectOverview, "A widget tracking dashboard that aggregates inventory data across warehouses in real time.")
	draft.Set(models.SectionTechnicalStack, "Built on React with a TypeScript codebase and a REST backend for inventory queries.")
	draft.Set(models.SectionInstallation, "Clone the repository, run npm install, then npm start to launch the development server.")
	draft.Set(models.SectionUsage, "Open the dashboard, connect a warehouse feed, and monitor widget levels from the overview page.")

	return &models.RunContext{
		RequestID: "req-1",
		UserID:    "user-1",
		Analysis: &models.RepositoryAnalysis{
			Owner:           "acme",
			Repo:            "widget-tracker",
			ProjectType:     "Web Application",
			PrimaryLanguage: "TypeScript",
			Frameworks:      []string{"React"},
			Features:        []string{"Authentication"},
			Complexity:      "moderate",
		},
		Draft: draft,
	}
}

func newLoop(respond func(prompt string) (string, error)) *Loop {
	llmStub := &scriptLLM{respond: respond}
	engine := generator.NewEngine("test-model", common.GetLogger())
	return NewLoop(llmStub, &stubAnalyzer{overall: 82}, engine, pipelineConfig(), common.GetLogger())
}

func isReasoningPrompt(prompt string) bool {
	return strings.Contains(prompt, "Respond with JSON only")
}

func TestRunStopsAtTargetQuality(t *testing.T) {
	loop := newLoop(func(prompt string) (string, error) {
		if isReasoningPrompt(prompt) {
			return `{"analysis":"polish the draft","action_plan":[{"type":"optimize_language","priority":1,"params":{"focus":"overall"}}],"confidence":0.9}`, nil
		}
		return "Polished section content with strong, specific language.", nil
	})

	rc := testRunContext()
	result, err := loop.Run(context.Background(), rc)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Cycles)
	assert.InDelta(t, 95.0, result.Score, 0.001)
	assert.False(t, result.Fallback)
	assert.Contains(t, result.Content, "# widget-tracker")
}

func TestRunTerminatesAtCycleCap(t *testing.T) {
	reasonCalls := 0
	loop := newLoop(func(prompt string) (string, error) {
		if isReasoningPrompt(prompt) {
			reasonCalls++
			return `{"analysis":"validate","action_plan":[{"type":"validate_quality","priority":1}],"confidence":0.8}`, nil
		}
		return "unused", nil
	})

	rc := testRunContext()
	result, err := loop.Run(context.Background(), rc)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Cycles)
	assert.Equal(t, 4, reasonCalls)
	assert.False(t, result.Fallback)
	// validate_quality on a full draft scores below target, above zero
	assert.Greater(t, result.Score, 0.0)
	assert.Less(t, result.Score, 95.0)
}

func TestRunFallsBackToValidationOnParseFailure(t *testing.T) {
	loop := newLoop(func(prompt string) (string, error) {
		if isReasoningPrompt(prompt) {
			return "I could not decide on a plan.", nil
		}
		return "unused", nil
	})

	rc := testRunContext()
	result, err := loop.Run(context.Background(), rc)
	require.NoError(t, err)

	require.NotEmpty(t, rc.Cycles)
	for _, record := range rc.Cycles {
		assert.Equal(t, models.ActionValidateQuality, record.Action.Type)
		assert.True(t, record.Succeeded)
	}
	assert.False(t, result.Fallback)
}

func TestRunUsesFallbackReadmeWhenEveryActionFails(t *testing.T) {
	loop := newLoop(func(prompt string) (string, error) {
		if isReasoningPrompt(prompt) {
			return `{"analysis":"fill sections","action_plan":[{"type":"generate_section","priority":1,"params":{"section":"features"}}],"confidence":0.7}`, nil
		}
		return "", errors.New("model unavailable")
	})

	rc := testRunContext()
	result, err := loop.Run(context.Background(), rc)
	require.NoError(t, err)

	assert.True(t, result.Fallback)
	assert.Contains(t, result.Content, "# widget-tracker")
	assert.Contains(t, result.Content, "Generated by Scribo")
	assert.Equal(t, 1, result.Cycles)
	assert.Zero(t, result.Score)
}

func TestRunSkipsUnknownActionTypes(t *testing.T) {
	loop := newLoop(func(prompt string) (string, error) {
		if isReasoningPrompt(prompt) {
			return `{"analysis":"mixed plan","action_plan":[
				{"type":"deploy_to_production","priority":1},
				{"type":"analyze_structure","priority":2}],"confidence":0.8}`, nil
		}
		return "unused", nil
	})

	rc := testRunContext()
	_, err := loop.Run(context.Background(), rc)
	require.NoError(t, err)

	require.NotEmpty(t, rc.Cycles)
	assert.Equal(t, models.ActionAnalyzeStructure, rc.Cycles[0].Action.Type)
}

func TestExecutorAnalyzeStructureScoresCompleteness(t *testing.T) {
	executor := NewExecutor(&scriptLLM{respond: func(string) (string, error) { return "", nil }}, &stubAnalyzer{overall: 80}, common.GetLogger())

	rc := testRunContext()
	score, err := executor.Execute(context.Background(), models.AgentAction{Type: models.ActionAnalyzeStructure}, rc)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, score, 0.001)

	// Remove two essential sections: completeness 50, two issues
	rc.Draft.Set(models.SectionInstallation, "")
	rc.Draft.Set(models.SectionUsage, "")
	score, err = executor.Execute(context.Background(), models.AgentAction{Type: models.ActionAnalyzeStructure}, rc)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, score, 0.001)
}

func TestExecutorGenerateSectionStoresContent(t *testing.T) {
	generated := strings.Repeat("Real content about features. ", 5)
	executor := NewExecutor(&scriptLLM{respond: func(string) (string, error) { return generated, nil }}, &stubAnalyzer{overall: 80}, common.GetLogger())

	rc := testRunContext()
	action := models.AgentAction{Type: models.ActionGenerateSection, Params: map[string]string{"section": models.SectionFeatures}}
	score, err := executor.Execute(context.Background(), action, rc)
	require.NoError(t, err)

	assert.InDelta(t, 85.0, score, 0.001)
	assert.Equal(t, strings.TrimSpace(generated), rc.Draft.Get(models.SectionFeatures))
}
