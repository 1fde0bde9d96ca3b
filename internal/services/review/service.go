package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sagemakera2iruntime"
	"github.com/aws/aws-sdk-go-v2/service/sagemakera2iruntime/types"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/models"
)

const (
	defaultReviewTimeout = 30 * time.Minute

	// Score assigned when a review passes its deadline without an answer
	timeoutScore      = 75.0
	timeoutConfidence = 0.6

	defaultReviewerConfidence = 0.8
)

// reviewCriteria are the dimensions human reviewers score from 1 to 5
var reviewCriteria = map[string]string{
	"completeness":       "All necessary sections present and well-structured",
	"clarity":            "Clear, concise, and easy to understand",
	"technical_accuracy": "Technical information is accurate and up-to-date",
	"professional_tone":  "Professional, engaging, and appropriate tone",
	"formatting":         "Proper markdown formatting and visual appeal",
	"usability":          "Easy to follow installation and usage instructions",
}

// humanLoopAPI is the subset of the A2I runtime client used by the service
type humanLoopAPI interface {
	StartHumanLoop(ctx context.Context, params *sagemakera2iruntime.StartHumanLoopInput, optFns ...func(*sagemakera2iruntime.Options)) (*sagemakera2iruntime.StartHumanLoopOutput, error)
	DescribeHumanLoop(ctx context.Context, params *sagemakera2iruntime.DescribeHumanLoopInput, optFns ...func(*sagemakera2iruntime.Options)) (*sagemakera2iruntime.DescribeHumanLoopOutput, error)
	StopHumanLoop(ctx context.Context, params *sagemakera2iruntime.StopHumanLoopInput, optFns ...func(*sagemakera2iruntime.Options)) (*sagemakera2iruntime.StopHumanLoopOutput, error)
	ListHumanLoops(ctx context.Context, params *sagemakera2iruntime.ListHumanLoopsInput, optFns ...func(*sagemakera2iruntime.Options)) (*sagemakera2iruntime.ListHumanLoopsOutput, error)
}

// loopOutputReader fetches a completed loop's answer document by its URI
type loopOutputReader interface {
	ReadOutput(ctx context.Context, uri string) ([]byte, error)
}

// Service dispatches generated READMEs to AWS A2I human review loops and
// resolves their outcomes. Loops are persisted as PendingReview records;
// the Poller drives them to a terminal state on cron ticks instead of
// blocking the request.
type Service struct {
	config  *common.ReviewConfig
	gate    *Gate
	client  humanLoopAPI
	outputs loopOutputReader
	reviews interfaces.ReviewStorage
	timeout time.Duration
	logger  arbor.ILogger
}

// NewService creates an A2I-backed review service
func NewService(ctx context.Context, config *common.ReviewConfig, reviews interfaces.ReviewStorage, logger arbor.ILogger) (*Service, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	timeout := defaultReviewTimeout
	if config.Timeout != "" {
		if parsed, err := time.ParseDuration(config.Timeout); err == nil {
			timeout = parsed
		}
	}

	return &Service{
		config:  config,
		gate:    NewGate(config),
		client:  sagemakera2iruntime.NewFromConfig(awsCfg),
		outputs: &s3OutputReader{client: s3.NewFromConfig(awsCfg)},
		reviews: reviews,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// newServiceWithClient builds a service with injected dependencies for tests
func newServiceWithClient(config *common.ReviewConfig, client humanLoopAPI, outputs loopOutputReader, reviews interfaces.ReviewStorage, logger arbor.ILogger) *Service {
	return &Service{
		config:  config,
		gate:    NewGate(config),
		client:  client,
		outputs: outputs,
		reviews: reviews,
		timeout: defaultReviewTimeout,
		logger:  logger,
	}
}

// ShouldReview applies the gate decision to an assessment
func (s *Service) ShouldReview(assessment *models.QualityAssessment, complexity string) bool {
	return s.gate.ShouldReview(assessment, complexity)
}

// taskInput is the document presented to human reviewers
type taskInput struct {
	ReadmeContent  string             `json:"readme_content"`
	ProjectInfo    taskProjectInfo    `json:"project_info"`
	QualityScore   float64            `json:"ai_quality_score"`
	ReviewCriteria map[string]string  `json:"review_criteria"`
	Instructions   string             `json:"instructions"`
	Components     map[string]float64 `json:"score_components,omitempty"`
}

type taskProjectInfo struct {
	Name       string `json:"name"`
	Complexity string `json:"complexity"`
}

// StartReview dispatches a human review loop and persists its pending state
func (s *Service) StartReview(ctx context.Context, req *models.ReviewRequest) (*models.PendingReview, error) {
	loopName := common.NewLoopName(req.RepoName)

	input := taskInput{
		ReadmeContent: req.Content,
		ProjectInfo: taskProjectInfo{
			Name:       req.RepoName,
			Complexity: req.Complexity,
		},
		ReviewCriteria: reviewCriteria,
		Instructions:   reviewInstructions(req.RepoName, req.Complexity),
	}
	if req.Assessment != nil {
		input.QualityScore = req.Assessment.Overall
		input.Components = map[string]float64{
			"sentiment":   req.Assessment.SentimentScore,
			"entities":    req.Assessment.EntityScore,
			"key_phrases": req.Assessment.KeyPhraseScore,
			"syntax":      req.Assessment.SyntaxScore,
		}
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal review task input: %w", err)
	}

	_, err = s.client.StartHumanLoop(ctx, &sagemakera2iruntime.StartHumanLoopInput{
		HumanLoopName:     aws.String(loopName),
		FlowDefinitionArn: aws.String(s.config.FlowDefinitionArn),
		HumanLoopInput: &types.HumanLoopInput{
			InputContent: aws.String(string(payload)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start human loop: %w", err)
	}

	now := time.Now()
	pending := &models.PendingReview{
		LoopName:   loopName,
		UserID:     req.UserID,
		RequestID:  req.RequestID,
		RepoName:   req.RepoName,
		Status:     models.ReviewStatusPending,
		StartedAt:  now,
		Deadline:   now.Add(s.timeout),
		ContentKey: req.ContentKey,
	}
	if err := s.reviews.SavePending(ctx, pending); err != nil {
		return nil, fmt.Errorf("failed to persist pending review: %w", err)
	}

	s.logger.Info().
		Str("loop", loopName).
		Str("repo", req.RepoName).
		Str("deadline", pending.Deadline.Format(time.RFC3339)).
		Msg("Human review loop started")

	return pending, nil
}

// CheckReview resolves the outcome of a review loop. It returns
// interfaces.ErrReviewPending while the loop is still open.
func (s *Service) CheckReview(ctx context.Context, loopName string) (*models.ReviewResult, error) {
	pending, err := s.reviews.GetPending(ctx, loopName)
	if err != nil {
		return nil, err
	}
	if !pending.Open() {
		if pending.Result != nil {
			return pending.Result, nil
		}
		return nil, fmt.Errorf("review %s is %s but has no result", loopName, pending.Status)
	}

	result, err := s.poll(ctx, pending)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, interfaces.ErrReviewPending
	}

	pending.Status = result.Status
	pending.Result = result
	if err := s.reviews.Update(ctx, pending); err != nil {
		return nil, fmt.Errorf("failed to persist review result: %w", err)
	}
	return result, nil
}

// poll checks the loop once and returns a terminal result, or nil while
// the loop is still in progress and within its deadline
func (s *Service) poll(ctx context.Context, pending *models.PendingReview) (*models.ReviewResult, error) {
	resp, err := s.client.DescribeHumanLoop(ctx, &sagemakera2iruntime.DescribeHumanLoopInput{
		HumanLoopName: aws.String(pending.LoopName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe human loop %s: %w", pending.LoopName, err)
	}

	switch resp.HumanLoopStatus {
	case types.HumanLoopStatusCompleted:
		return s.completedResult(ctx, pending, resp), nil

	case types.HumanLoopStatusFailed:
		reason := aws.ToString(resp.FailureReason)
		s.logger.Warn().Str("loop", pending.LoopName).Str("reason", reason).Msg("Human review failed")
		return terminalResult(pending.LoopName, models.ReviewStatusFailed, 0, 0, reason), nil

	case types.HumanLoopStatusStopped:
		return terminalResult(pending.LoopName, models.ReviewStatusStopped, 0, 0, "review was stopped"), nil

	default:
		if time.Now().After(pending.Deadline) {
			s.logger.Warn().Str("loop", pending.LoopName).Msg("Human review deadline passed, approving with reduced confidence")
			s.stopLoop(ctx, pending.LoopName)
			return terminalResult(pending.LoopName, models.ReviewStatusTimeoutApproved, timeoutScore, timeoutConfidence,
				"review timed out, proceeding with generated content"), nil
		}
		return nil, nil
	}
}

// loopOutput is the A2I answer document written to the output store
type loopOutput struct {
	HumanAnswers []struct {
		AnswerContent json.RawMessage `json:"answerContent"`
	} `json:"humanAnswers"`
}

type answerContent struct {
	QualityScores  map[string]float64 `json:"quality_scores"`
	Feedback       map[string]string  `json:"feedback"`
	Confidence     float64            `json:"confidence"`
	ApprovalStatus string             `json:"approval_status"`
}

// completedResult reads the reviewer's answers and converts the 1-5
// criteria scores to the canonical 0-100 scale
func (s *Service) completedResult(ctx context.Context, pending *models.PendingReview, resp *sagemakera2iruntime.DescribeHumanLoopOutput) *models.ReviewResult {
	if resp.HumanLoopOutput == nil || resp.HumanLoopOutput.OutputS3Uri == nil {
		return terminalResult(pending.LoopName, models.ReviewStatusFailed, 0, 0, "completed loop has no output location")
	}

	data, err := s.outputs.ReadOutput(ctx, aws.ToString(resp.HumanLoopOutput.OutputS3Uri))
	if err != nil {
		s.logger.Warn().Err(err).Str("loop", pending.LoopName).Msg("Failed to read review output")
		return terminalResult(pending.LoopName, models.ReviewStatusFailed, 0, 0, "failed to read review output")
	}

	var output loopOutput
	if err := json.Unmarshal(data, &output); err != nil || len(output.HumanAnswers) == 0 {
		return terminalResult(pending.LoopName, models.ReviewStatusFailed, 0, 0, "no human answers found")
	}

	var answer answerContent
	raw := output.HumanAnswers[0].AnswerContent
	// answerContent arrives either as an object or a JSON-encoded string
	if err := json.Unmarshal(raw, &answer); err != nil {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return terminalResult(pending.LoopName, models.ReviewStatusFailed, 0, 0, "unreadable answer content")
		}
		if err := json.Unmarshal([]byte(encoded), &answer); err != nil {
			return terminalResult(pending.LoopName, models.ReviewStatusFailed, 0, 0, "unreadable answer content")
		}
	}

	score := 0.0
	if len(answer.QualityScores) > 0 {
		sum := 0.0
		for _, v := range answer.QualityScores {
			sum += v
		}
		score = sum / float64(len(answer.QualityScores)) * 20
	}

	confidence := answer.Confidence
	if confidence == 0 {
		confidence = defaultReviewerConfidence
	}

	return terminalResult(pending.LoopName, models.ReviewStatusCompleted, score, confidence, flattenFeedback(answer.Feedback))
}

// WaitForResult polls a loop until it reaches a terminal state or the
// context is cancelled. The poller makes this unnecessary in the server;
// it exists for synchronous callers.
func (s *Service) WaitForResult(ctx context.Context, loopName string, interval time.Duration) (*models.ReviewResult, error) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result, err := s.CheckReview(ctx, loopName)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, interfaces.ErrReviewPending) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// CancelReview stops an in-flight review loop and records the outcome
func (s *Service) CancelReview(ctx context.Context, loopName string) error {
	pending, err := s.reviews.GetPending(ctx, loopName)
	if err != nil {
		return err
	}
	if !pending.Open() {
		return nil
	}

	s.stopLoop(ctx, loopName)

	result := terminalResult(loopName, models.ReviewStatusStopped, 0, 0, "review cancelled")
	pending.Status = result.Status
	pending.Result = result
	return s.reviews.Update(ctx, pending)
}

// HealthCheck verifies the A2I flow definition is reachable
func (s *Service) HealthCheck(ctx context.Context) error {
	if !s.config.Enabled {
		return nil
	}
	_, err := s.client.ListHumanLoops(ctx, &sagemakera2iruntime.ListHumanLoopsInput{
		FlowDefinitionArn: aws.String(s.config.FlowDefinitionArn),
		MaxResults:        aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("review backend unavailable: %w", err)
	}
	return nil
}

func (s *Service) stopLoop(ctx context.Context, loopName string) {
	_, err := s.client.StopHumanLoop(ctx, &sagemakera2iruntime.StopHumanLoopInput{
		HumanLoopName: aws.String(loopName),
	})
	if err != nil {
		s.logger.Debug().Err(err).Str("loop", loopName).Msg("Failed to stop human loop")
	}
}

func terminalResult(loopName, status string, score, confidence float64, feedback string) *models.ReviewResult {
	return &models.ReviewResult{
		LoopName:    loopName,
		Status:      status,
		Score:       score,
		Confidence:  confidence,
		Feedback:    feedback,
		CompletedAt: time.Now(),
	}
}

func flattenFeedback(feedback map[string]string) string {
	if len(feedback) == 0 {
		return ""
	}
	keys := make([]string, 0, len(feedback))
	for k := range feedback {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, feedback[k]))
	}
	return strings.Join(parts, "; ")
}

// reviewInstructions builds the task guidance shown to reviewers
func reviewInstructions(repoName, complexity string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Review the generated README for %s.\n\n", repoName)
	b.WriteString("1. Verify the README accurately represents the project\n")
	b.WriteString("2. Check that installation instructions match the technology stack\n")
	b.WriteString("3. Ensure usage examples are relevant and helpful\n")
	b.WriteString("4. Validate that the technical information is accurate\n")
	if complexity == "complex" {
		b.WriteString("\nFor complex projects also check that architecture and deployment documentation is comprehensive.\n")
	}
	return b.String()
}
