package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/models"
	"github.com/ternarybob/scribo/internal/services/agent"
	"github.com/ternarybob/scribo/internal/services/metadata"
	"github.com/ternarybob/scribo/internal/services/postprocess"
)

// GenerateService implements the generate stage: run the agent loop over
// the stored analysis, score the result, apply the human-review gate,
// post-process, and persist the final document.
type GenerateService struct {
	analyze  *AnalyzeService
	loop     *agent.Loop
	analyzer interfaces.TextAnalyzer
	review   interfaces.ReviewService
	reviewer *postprocess.Reviewer
	storage  interfaces.StorageManager
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewGenerateService creates the generate stage service
func NewGenerateService(analyze *AnalyzeService, loop *agent.Loop, analyzer interfaces.TextAnalyzer, review interfaces.ReviewService, storage interfaces.StorageManager, logger arbor.ILogger) *GenerateService {
	return &GenerateService{
		analyze:  analyze,
		loop:     loop,
		analyzer: analyzer,
		review:   review,
		reviewer: postprocess.NewReviewer(logger),
		storage:  storage,
		validate: validator.New(),
		logger:   logger,
	}
}

// Generate runs the generate stage for a previously analyzed repository
func (s *GenerateService) Generate(ctx context.Context, req *models.GenerateRequest) (*models.GenerateResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid generate request: %w", err)
	}
	start := time.Now()

	analysis, err := s.analyze.LoadAnalysis(ctx, req.Owner, req.Repo)
	if err != nil {
		return nil, fmt.Errorf("analysis not available for %s/%s: %w", req.Owner, req.Repo, err)
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = analysis.RequestID
	}
	if requestID == "" {
		requestID = common.NewRequestID()
	}

	draft := analysis.Draft
	if draft == nil {
		draft = models.NewDraftStructure()
	}

	rc := &models.RunContext{
		RequestID: requestID,
		UserID:    req.UserID,
		Analysis:  analysis,
		Draft:     draft,
		StartedAt: start,
	}

	s.logger.Info().
		Str("repo", req.Owner+"/"+req.Repo).
		Str("request_id", requestID).
		Msg("Generate stage started")

	loopResult, err := s.loop.Run(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("generation loop failed: %w", err)
	}

	assessment, err := s.analyzer.Assess(ctx, loopResult.Content, analysis.Repo)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Quality assessment unavailable, using fallback")
		assessment = models.FallbackAssessment()
	}

	result := &models.GenerateResult{
		Owner:        req.Owner,
		Repo:         req.Repo,
		RequestID:    requestID,
		QualityScore: assessment.Overall,
		Cycles:       loopResult.Cycles,
		Assessment:   assessment,
	}

	if s.review.ShouldReview(assessment, analysis.Complexity) {
		pending, reviewErr := s.startReview(ctx, req, analysis, loopResult.Content, assessment)
		if reviewErr != nil {
			s.logger.Warn().Err(reviewErr).Msg("Human review dispatch failed, publishing without review")
		} else {
			result.ReviewRequired = true
			result.ReviewLoop = pending.LoopName
		}
	}

	content, report := s.reviewer.Review(loopResult.Content)
	s.logger.Info().
		Int("issues", len(report.Issues)).
		Int("fixes", len(report.Fixes)).
		Float64("format_score", report.QualityScore).
		Msg("Post-processing complete")

	content = metadata.Append(content, metadata.FromAnalysis(analysis))

	key := readmeKey(req.Owner, req.Repo)
	err = s.storage.ArtifactStorage().Put(ctx, key, []byte(content), "text/markdown", map[string]string{
		"generated-by": "scribo",
		"request-id":   requestID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist README: %w", err)
	}
	result.ReadmeKey = key

	if url, urlErr := s.storage.ArtifactStorage().URL(ctx, key, 0); urlErr == nil {
		result.ReadmeURL = url
	} else {
		s.logger.Debug().Err(urlErr).Msg("Presigned URL unavailable")
	}

	result.ProcessingTime = time.Since(start).Seconds()
	if err := s.saveHistory(ctx, req, analysis, result); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to record generation history")
	}

	s.logger.Info().
		Str("repo", req.Owner+"/"+req.Repo).
		Float64("quality", result.QualityScore).
		Int("cycles", result.Cycles).
		Bool("review_required", result.ReviewRequired).
		Float64("seconds", result.ProcessingTime).
		Msg("Generate stage complete")

	return result, nil
}

// LoadReadme reads a persisted README back from the artifact store
func (s *GenerateService) LoadReadme(ctx context.Context, owner, repo string) (string, error) {
	data, err := s.storage.ArtifactStorage().Get(ctx, readmeKey(owner, repo))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// startReview stores the content under review and dispatches the loop
func (s *GenerateService) startReview(ctx context.Context, req *models.GenerateRequest, analysis *models.RepositoryAnalysis, content string, assessment *models.QualityAssessment) (*models.PendingReview, error) {
	contentKey := reviewDraftKey(req.Owner, req.Repo)
	err := s.storage.ArtifactStorage().Put(ctx, contentKey, []byte(content), "text/markdown", map[string]string{
		"generated-by": "scribo",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store review draft: %w", err)
	}

	return s.review.StartReview(ctx, &models.ReviewRequest{
		UserID:     req.UserID,
		RequestID:  analysis.RequestID,
		RepoName:   req.Owner + "/" + req.Repo,
		Content:    content,
		ContentKey: contentKey,
		Assessment: assessment,
		Complexity: analysis.Complexity,
	})
}

// saveHistory upserts the generation outcome onto the history record
func (s *GenerateService) saveHistory(ctx context.Context, req *models.GenerateRequest, analysis *models.RepositoryAnalysis, result *models.GenerateResult) error {
	status := models.HistoryStatusCompleted
	if result.ReviewRequired {
		status = models.HistoryStatusInReview
	}

	record := &models.HistoryRecord{
		UserID:          req.UserID,
		RequestID:       result.RequestID,
		RepoURL:         analysis.RepoURL,
		RepoName:        req.Owner + "/" + req.Repo,
		Status:          status,
		ProjectType:     analysis.ProjectType,
		PrimaryLanguage: analysis.PrimaryLanguage,
		Frameworks:      analysis.Frameworks,
		QualityScore:    result.QualityScore,
		ReadmeKey:       result.ReadmeKey,
		ReadmeURL:       result.ReadmeURL,
		ProcessingTime:  result.ProcessingTime,
	}
	return s.storage.HistoryStorage().Save(ctx, record)
}
