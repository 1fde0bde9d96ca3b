package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/common"
	gh "github.com/ternarybob/scribo/internal/connectors/github"
	"github.com/ternarybob/scribo/internal/handlers"
	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/pipeline"
	"github.com/ternarybob/scribo/internal/services/agent"
	"github.com/ternarybob/scribo/internal/services/classifier"
	"github.com/ternarybob/scribo/internal/services/generator"
	"github.com/ternarybob/scribo/internal/services/llm"
	"github.com/ternarybob/scribo/internal/services/nlp"
	"github.com/ternarybob/scribo/internal/services/render"
	"github.com/ternarybob/scribo/internal/services/review"
	"github.com/ternarybob/scribo/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Core services
	LLMService    interfaces.LLMService
	Analyzer      interfaces.TextAnalyzer
	ReviewService *review.Service
	ReviewPoller  *review.Poller

	// Pipeline stages
	AnalyzeService  *pipeline.AnalyzeService
	GenerateService *pipeline.GenerateService

	// HTTP handlers
	AnalyzeHandler  *handlers.AnalyzeHandler
	GenerateHandler *handlers.GenerateHandler
	ReviewHandler   *handlers.ReviewHandler
	HistoryHandler  *handlers.HistoryHandler
	ReadmeHandler   *handlers.ReadmeHandler
	StatusHandler   *handlers.StatusHandler
	KVHandler       *handlers.KVHandler
}

// New initializes the application with all dependencies
func New(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initServices(ctx); err != nil {
		app.StorageManager.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("environment", cfg.Environment).
		Bool("nlp_enabled", cfg.NLP.Enabled).
		Bool("review_enabled", cfg.Review.Enabled).
		Msg("Application initialization complete")

	return app, nil
}

// initStorage initializes the Badger and object storage layers
func (a *App) initStorage() error {
	manager, err := storage.NewManager(&a.Config.Storage, a.Logger)
	if err != nil {
		return err
	}

	a.StorageManager = manager
	a.Logger.Debug().
		Str("badger_path", a.Config.Storage.Badger.Path).
		Str("object_endpoint", a.Config.Storage.Object.Endpoint).
		Msg("Storage layer initialized")
	return nil
}

// initServices wires the pipeline services over the storage layer
func (a *App) initServices(ctx context.Context) error {
	llmService, err := llm.NewClaudeService(&a.Config.Claude, a.StorageManager.KeyValueStorage(), a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM service: %w", err)
	}
	a.LLMService = llmService

	analyzer, err := nlp.NewAnalyzer(ctx, &a.Config.NLP, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create quality analyzer: %w", err)
	}
	a.Analyzer = analyzer

	reviewService, err := review.NewService(ctx, &a.Config.Review, a.StorageManager.ReviewStorage(), a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create review service: %w", err)
	}
	a.ReviewService = reviewService

	if a.Config.Review.Enabled {
		a.ReviewPoller = review.NewPoller(
			reviewService,
			a.StorageManager.ReviewStorage(),
			a.StorageManager.HistoryStorage(),
			a.Config.Review.PollSchedule,
			a.Logger,
		)
	}

	connector := gh.NewConnector(&a.Config.GitHub, a.Logger)
	fetcher := gh.NewFetcher(connector, &a.Config.GitHub, a.Logger)
	classifierService := classifier.NewService(a.Logger)

	a.AnalyzeService = pipeline.NewAnalyzeService(
		connector, fetcher, classifierService, a.LLMService, a.StorageManager, a.Logger)

	engine := generator.NewEngine(a.Config.Claude.Model, a.Logger)
	loop := agent.NewLoop(a.LLMService, a.Analyzer, engine, &a.Config.Pipeline, a.Logger)

	a.GenerateService = pipeline.NewGenerateService(
		a.AnalyzeService, loop, a.Analyzer, a.ReviewService, a.StorageManager, a.Logger)

	return nil
}

// initHandlers creates the HTTP handler set
func (a *App) initHandlers() {
	renderer := render.NewRenderer(a.Logger)

	a.AnalyzeHandler = handlers.NewAnalyzeHandler(a.AnalyzeService, a.Logger)
	a.GenerateHandler = handlers.NewGenerateHandler(a.GenerateService, a.Logger)
	a.ReviewHandler = handlers.NewReviewHandler(a.ReviewService, a.Logger)
	a.HistoryHandler = handlers.NewHistoryHandler(a.StorageManager.HistoryStorage(), a.Logger)
	a.ReadmeHandler = handlers.NewReadmeHandler(a.GenerateService, renderer, a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.LLMService, a.Analyzer, a.ReviewService, a.StorageManager, a.Logger)
	a.KVHandler = handlers.NewKVHandler(a.StorageManager.KeyValueStorage(), a.Logger)
}

// StartPoller starts the pending-review poller when review is enabled
func (a *App) StartPoller(ctx context.Context) error {
	if a.ReviewPoller == nil {
		return nil
	}
	return a.ReviewPoller.Start(ctx)
}

// Close releases application resources
func (a *App) Close() error {
	if a.ReviewPoller != nil {
		a.ReviewPoller.Stop()
	}
	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}
	a.Logger.Info().Msg("Application shutdown complete")
	return nil
}
