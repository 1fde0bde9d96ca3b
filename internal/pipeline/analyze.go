package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/common"
	gh "github.com/ternarybob/scribo/internal/connectors/github"
	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/models"
	"github.com/ternarybob/scribo/internal/services/classifier"
	"github.com/ternarybob/scribo/internal/services/llm"
)

// DuplicateError reports that the user already has a generation for the
// repository. Callers map it to a conflict response; Force bypasses it.
type DuplicateError struct {
	Existing *models.HistoryRecord
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("repository already processed as request %s", e.Existing.RequestID)
}

func (e *DuplicateError) Unwrap() error {
	return interfaces.ErrDuplicateRepo
}

// AnalyzeService implements the analyze stage: fetch a bounded snapshot
// of the repository, classify it, draft the README structure, and
// persist the analysis for the generate stage.
type AnalyzeService struct {
	connector  *gh.Connector
	fetcher    *gh.Fetcher
	classifier *classifier.Service
	llm        interfaces.LLMService
	storage    interfaces.StorageManager
	validate   *validator.Validate
	logger     arbor.ILogger
}

// NewAnalyzeService creates the analyze stage service
func NewAnalyzeService(connector *gh.Connector, fetcher *gh.Fetcher, classifierService *classifier.Service, llmService interfaces.LLMService, storage interfaces.StorageManager, logger arbor.ILogger) *AnalyzeService {
	return &AnalyzeService{
		connector:  connector,
		fetcher:    fetcher,
		classifier: classifierService,
		llm:        llmService,
		storage:    storage,
		validate:   validator.New(),
		logger:     logger,
	}
}

// Analyze runs the analyze stage for one repository
func (s *AnalyzeService) Analyze(ctx context.Context, req *models.AnalyzeRequest) (*models.RepositoryAnalysis, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid analyze request: %w", err)
	}

	owner, repo, err := common.ParseRepoURL(req.RepoURL)
	if err != nil {
		return nil, err
	}
	normalizedURL, err := common.NormalizeRepoURL(req.RepoURL)
	if err != nil {
		return nil, err
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = common.NewRequestID()
	}

	if !req.Force {
		existing, err := s.storage.HistoryStorage().FindByRepoURL(ctx, req.UserID, normalizedURL)
		if err == nil {
			s.logger.Info().
				Str("repo", owner+"/"+repo).
				Str("existing_request", existing.RequestID).
				Msg("Duplicate repository request rejected")
			return nil, &DuplicateError{Existing: existing}
		}
	}

	s.logger.Info().
		Str("repo", owner+"/"+repo).
		Str("request_id", requestID).
		Msg("Analyze stage started")

	fetch, err := s.fetcher.Fetch(ctx, owner, repo, req.Branch)
	if err != nil {
		return nil, fmt.Errorf("repository fetch failed: %w", err)
	}

	languages, err := s.connector.ListLanguages(ctx, owner, repo)
	if err != nil {
		s.logger.Warn().Err(err).Str("repo", owner+"/"+repo).Msg("Language listing failed, classifying from files")
		languages = nil
	}

	analysis := s.classifier.Classify(fetch, languages)
	analysis.RepoURL = normalizedURL
	analysis.UserID = req.UserID
	analysis.RequestID = requestID
	analysis.CreatedAt = time.Now()
	if req.Branch != "" {
		analysis.Branch = req.Branch
	}

	analysis.Draft = s.draftStructure(ctx, analysis, fetch)

	if err := s.persistAnalysis(ctx, analysis); err != nil {
		return nil, err
	}

	record := &models.HistoryRecord{
		UserID:          req.UserID,
		RequestID:       requestID,
		RepoURL:         normalizedURL,
		RepoName:        owner + "/" + repo,
		Status:          models.HistoryStatusProcessing,
		ProjectType:     analysis.ProjectType,
		PrimaryLanguage: analysis.PrimaryLanguage,
		Frameworks:      analysis.Frameworks,
	}
	if err := s.storage.HistoryStorage().Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save history record: %w", err)
	}

	s.logger.Info().
		Str("repo", owner+"/"+repo).
		Str("project_type", analysis.ProjectType).
		Str("complexity", analysis.Complexity).
		Float64("security_score", analysis.SecurityScore).
		Msg("Analyze stage complete")

	return analysis, nil
}

// draftStructure asks the model for initial section content. Failures
// degrade to an empty draft; the generate stage fills sections itself.
func (s *AnalyzeService) draftStructure(ctx context.Context, analysis *models.RepositoryAnalysis, fetch *gh.FetchResult) *models.DraftStructure {
	reply, err := s.llm.Chat(ctx, []interfaces.Message{
		{Role: "user", Content: draftPrompt(analysis, fetch)},
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Draft generation failed, starting from empty draft")
		return models.NewDraftStructure()
	}

	draft := models.NewDraftStructure()
	if err := llm.ExtractJSON(reply, draft); err != nil {
		s.logger.Warn().Err(err).Msg("Draft response unparseable, starting from empty draft")
		return models.NewDraftStructure()
	}
	draft.Normalize()
	return draft
}

// persistAnalysis writes the analysis JSON to the artifact store
func (s *AnalyzeService) persistAnalysis(ctx context.Context, analysis *models.RepositoryAnalysis) error {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	key := analysisKey(analysis.Owner, analysis.Repo)
	err = s.storage.ArtifactStorage().Put(ctx, key, data, "application/json", map[string]string{
		"generated-by": "scribo",
		"request-id":   analysis.RequestID,
	})
	if err != nil {
		return fmt.Errorf("failed to persist analysis: %w", err)
	}
	return nil
}

// LoadAnalysis reads a persisted analysis back from the artifact store
func (s *AnalyzeService) LoadAnalysis(ctx context.Context, owner, repo string) (*models.RepositoryAnalysis, error) {
	data, err := s.storage.ArtifactStorage().Get(ctx, analysisKey(owner, repo))
	if err != nil {
		return nil, err
	}

	var analysis models.RepositoryAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse stored analysis: %w", err)
	}
	return &analysis, nil
}

// draftPrompt asks the model to draft section content as JSON keyed by
// the canonical section names
func draftPrompt(analysis *models.RepositoryAnalysis, fetch *gh.FetchResult) string {
	var files strings.Builder
	for _, file := range fetch.Files {
		files.WriteString("--- " + file.Path + " ---\n")
		files.WriteString(file.Content)
		files.WriteString("\n")
	}

	return fmt.Sprintf(`Draft README section content for %s/%s, a %s written in %s.

Classification:
- Frameworks: %s
- Features: %s
- Architecture: %s

Repository files (truncated):
%s

Respond with JSON only, using exactly this shape:
{"sections": {%s}}

Write concrete markdown body content for each section you can support with the files above; use an empty string for sections you cannot. No heading lines inside section content.`,
		analysis.Owner, analysis.Repo, analysis.ProjectType, analysis.PrimaryLanguage,
		strings.Join(analysis.Frameworks, ", "),
		strings.Join(analysis.Features, ", "),
		analysis.Architecture,
		files.String(),
		draftShape())
}

func draftShape() string {
	parts := make([]string, len(models.SectionKeys))
	for i, key := range models.SectionKeys {
		parts[i] = fmt.Sprintf("%q: \"...\"", key)
	}
	return strings.Join(parts, ", ")
}
