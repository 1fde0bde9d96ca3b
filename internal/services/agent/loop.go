package agent

import (
	"context"
	"sort"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/models"
	"github.com/ternarybob/scribo/internal/services/generator"
	"github.com/ternarybob/scribo/internal/services/llm"
)

// maxActionsPerCycle bounds how many planned actions run in one cycle
const maxActionsPerCycle = 3

// Result is the outcome of a generation run
type Result struct {
	Content  string
	Score    float64
	Cycles   int
	Fallback bool
}

// Loop drives the reason-act-observe generation cycles. Each cycle asks
// the model to plan refinement actions, executes them against the draft,
// and records the cycle score. The loop stops at the cycle cap, at the
// target quality, after too many failed cycles, or when a cycle makes no
// progress at all.
type Loop struct {
	llm      interfaces.LLMService
	executor *Executor
	engine   *generator.Engine
	config   *common.PipelineConfig
	logger   arbor.ILogger
}

// NewLoop creates a generation loop
func NewLoop(llmService interfaces.LLMService, analyzer interfaces.TextAnalyzer, engine *generator.Engine, config *common.PipelineConfig, logger arbor.ILogger) *Loop {
	return &Loop{
		llm:      llmService,
		executor: NewExecutor(llmService, analyzer, logger),
		engine:   engine,
		config:   config,
		logger:   logger,
	}
}

// Run executes generation cycles over the run context and renders the
// final README. When every cycle fails outright the fallback document is
// returned instead of a render of the untouched draft.
func (l *Loop) Run(ctx context.Context, rc *models.RunContext) (*Result, error) {
	if rc.StartedAt.IsZero() {
		rc.StartedAt = time.Now()
	}
	rc.Draft.Normalize()

	for cycle := 1; cycle <= l.config.MaxCycles; cycle++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		l.logger.Info().
			Int("cycle", cycle).
			Int("max_cycles", l.config.MaxCycles).
			Str("request_id", rc.RequestID).
			Msg("Generation cycle started")

		record := l.runCycle(ctx, cycle, rc)
		rc.Append(record)

		l.logger.Info().
			Int("cycle", cycle).
			Float64("score", record.Score).
			Bool("succeeded", record.Succeeded).
			Msg("Generation cycle complete")

		if record.Score >= l.config.TargetQuality {
			l.logger.Info().Float64("score", record.Score).Msg("Target quality reached")
			break
		}
		if rc.Failures >= l.config.MaxFailures {
			l.logger.Warn().Int("failures", rc.Failures).Msg("Stopping after repeated cycle failures")
			break
		}
		if record.Score <= 0 {
			l.logger.Warn().Msg("Stopping after cycle with no progress")
			break
		}
	}

	result := &Result{
		Score:  rc.BestScore,
		Cycles: len(rc.Cycles),
	}

	if rc.BestScore <= 0 {
		result.Content = generator.Fallback(rc.Analysis)
		result.Fallback = true
		rc.Content = result.Content
		l.logger.Warn().Str("request_id", rc.RequestID).Msg("All cycles failed, using fallback README")
		return result, nil
	}

	rc.Content = l.engine.Render(rc.Analysis, rc.Draft)
	result.Content = rc.Content
	return result, nil
}

// runCycle plans and executes one cycle, producing its record
func (l *Loop) runCycle(ctx context.Context, cycle int, rc *models.RunContext) models.CycleRecord {
	start := time.Now()
	plan := l.reason(ctx, cycle, rc)

	var (
		total     float64
		succeeded int
		notes     []string
	)
	for _, action := range plan {
		score, err := l.executor.Execute(ctx, action, rc)
		if err != nil {
			l.logger.Warn().Err(err).Str("action", string(action.Type)).Msg("Action failed")
			notes = append(notes, string(action.Type)+": failed")
			continue
		}
		total += score
		succeeded++
		notes = append(notes, string(action.Type))
	}

	record := models.CycleRecord{
		Cycle:    cycle,
		Action:   plan[0],
		Duration: time.Since(start),
	}
	if succeeded > 0 {
		record.Score = total / float64(succeeded)
		record.Succeeded = true
	}
	if len(notes) > 0 {
		record.Notes = joinNotes(notes)
	}
	return record
}

// reasoningResponse is the JSON shape the planning prompt requests
type reasoningResponse struct {
	Analysis   string  `json:"analysis"`
	Confidence float64 `json:"confidence"`
	ActionPlan []struct {
		Type     string            `json:"type"`
		Priority int               `json:"priority"`
		Params   map[string]string `json:"params"`
	} `json:"action_plan"`
}

// reason asks the model for an action plan. Any model or parse failure
// degrades to a single validate_quality action so the cycle still
// produces a score.
func (l *Loop) reason(ctx context.Context, cycle int, rc *models.RunContext) []models.AgentAction {
	fallback := []models.AgentAction{{Type: models.ActionValidateQuality}}

	reply, err := l.llm.Chat(ctx, []interfaces.Message{
		{Role: "user", Content: reasoningPrompt(cycle, l.config.MaxCycles, rc)},
	})
	if err != nil {
		l.logger.Warn().Err(err).Int("cycle", cycle).Msg("Reasoning call failed, validating instead")
		return fallback
	}

	var parsed reasoningResponse
	if err := llm.ExtractJSON(reply, &parsed); err != nil {
		l.logger.Warn().Err(err).Int("cycle", cycle).Msg("Reasoning response unparseable, validating instead")
		return fallback
	}

	sort.SliceStable(parsed.ActionPlan, func(i, j int) bool {
		return parsed.ActionPlan[i].Priority < parsed.ActionPlan[j].Priority
	})

	var plan []models.AgentAction
	for _, planned := range parsed.ActionPlan {
		actionType, err := models.ParseActionType(planned.Type)
		if err != nil {
			l.logger.Debug().Str("type", planned.Type).Msg("Skipping unknown action type")
			continue
		}
		plan = append(plan, models.AgentAction{
			Type:      actionType,
			Reasoning: parsed.Analysis,
			Params:    planned.Params,
		})
		if len(plan) == maxActionsPerCycle {
			break
		}
	}
	if len(plan) == 0 {
		return fallback
	}
	return plan
}

func joinNotes(notes []string) string {
	out := notes[0]
	for _, note := range notes[1:] {
		out += ", " + note
	}
	return out
}
