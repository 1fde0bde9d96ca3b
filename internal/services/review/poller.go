package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/models"
)

const defaultPollSchedule = "@every 30s"

// Poller resumes persisted pending reviews on a cron schedule. Each tick
// checks every open loop once and records terminal outcomes, including
// the matching history status, so reviews survive process restarts.
type Poller struct {
	service  *Service
	reviews  interfaces.ReviewStorage
	history  interfaces.HistoryStorage
	cron     *cron.Cron
	schedule string
	logger   arbor.ILogger
}

// NewPoller creates a pending-review poller
func NewPoller(service *Service, reviews interfaces.ReviewStorage, history interfaces.HistoryStorage, schedule string, logger arbor.ILogger) *Poller {
	if schedule == "" {
		schedule = defaultPollSchedule
	}
	return &Poller{
		service:  service,
		reviews:  reviews,
		history:  history,
		cron:     cron.New(),
		schedule: schedule,
		logger:   logger,
	}
}

// Start begins scheduled polling
func (p *Poller) Start(ctx context.Context) error {
	_, err := p.cron.AddFunc(p.schedule, func() {
		p.Tick(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid poll schedule %q: %w", p.schedule, err)
	}
	p.cron.Start()
	p.logger.Info().Str("schedule", p.schedule).Msg("Review poller started")
	return nil
}

// Stop halts polling and waits for a running tick to finish
func (p *Poller) Stop() {
	stopCtx := p.cron.Stop()
	<-stopCtx.Done()
}

// Tick checks every open review once
func (p *Poller) Tick(ctx context.Context) {
	open, err := p.reviews.ListOpen(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Failed to list open reviews")
		return
	}
	if len(open) == 0 {
		return
	}

	p.logger.Debug().Int("open", len(open)).Msg("Polling pending reviews")

	for _, pending := range open {
		result, err := p.service.CheckReview(ctx, pending.LoopName)
		if errors.Is(err, interfaces.ErrReviewPending) {
			continue
		}
		if err != nil {
			p.logger.Warn().Err(err).Str("loop", pending.LoopName).Msg("Review poll failed")
			continue
		}
		p.recordOutcome(ctx, pending, result)
	}
}

// recordOutcome reflects a terminal review result onto the history record
func (p *Poller) recordOutcome(ctx context.Context, pending *models.PendingReview, result *models.ReviewResult) {
	status := models.HistoryStatusCompleted
	switch result.Status {
	case models.ReviewStatusFailed, models.ReviewStatusStopped:
		status = models.HistoryStatusFailed
	}

	if err := p.history.UpdateStatus(ctx, pending.UserID, pending.RequestID, status); err != nil {
		p.logger.Warn().Err(err).
			Str("loop", pending.LoopName).
			Str("request_id", pending.RequestID).
			Msg("Failed to update history after review")
	}

	p.logger.Info().
		Str("loop", pending.LoopName).
		Str("status", result.Status).
		Float64("score", result.Score).
		Msg("Human review resolved")
}
