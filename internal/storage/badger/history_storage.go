package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/models"
)

// HistoryStorage implements the HistoryStorage interface for Badger
type HistoryStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewHistoryStorage creates a new HistoryStorage instance
func NewHistoryStorage(db *BadgerDB, logger arbor.ILogger) interfaces.HistoryStorage {
	return &HistoryStorage{
		db:     db,
		logger: logger,
	}
}

// Save inserts or updates a history record, preserving CreatedAt on update
func (s *HistoryStorage) Save(ctx context.Context, record *models.HistoryRecord) error {
	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	var existing models.HistoryRecord
	if err := s.db.Store().Get(record.Key(), &existing); err == nil {
		record.CreatedAt = existing.CreatedAt
	}

	if err := s.db.Store().Upsert(record.Key(), record); err != nil {
		return fmt.Errorf("failed to save history record: %w", err)
	}
	return nil
}

// Get retrieves a record by user and request ID
func (s *HistoryStorage) Get(ctx context.Context, userID, requestID string) (*models.HistoryRecord, error) {
	key := userID + "/" + requestID
	var record models.HistoryRecord
	err := s.db.Store().Get(key, &record)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history record: %w", err)
	}
	return &record, nil
}

// FindByRepoURL returns the most recent record a user has for a
// repository URL, or ErrNotFound
func (s *HistoryStorage) FindByRepoURL(ctx context.Context, userID, repoURL string) (*models.HistoryRecord, error) {
	var records []models.HistoryRecord
	err := s.db.Store().Find(&records, badgerhold.Where("RepoURL").Eq(repoURL).Index("RepoURL"))
	if err != nil {
		return nil, fmt.Errorf("failed to query history by repository URL: %w", err)
	}

	var newest *models.HistoryRecord
	for i := range records {
		if records[i].UserID != userID {
			continue
		}
		if newest == nil || records[i].CreatedAt.After(newest.CreatedAt) {
			newest = &records[i]
		}
	}
	if newest == nil {
		return nil, interfaces.ErrNotFound
	}
	return newest, nil
}

// ListByUser returns a user's records ordered newest first
func (s *HistoryStorage) ListByUser(ctx context.Context, userID string, limit int) ([]*models.HistoryRecord, error) {
	var records []models.HistoryRecord
	err := s.db.Store().Find(&records, badgerhold.Where("UserID").Eq(userID).Index("UserID"))
	if err != nil {
		return nil, fmt.Errorf("failed to list history records: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	out := make([]*models.HistoryRecord, len(records))
	for i := range records {
		out[i] = &records[i]
	}
	return out, nil
}

// UpdateStatus updates the status field of an existing record
func (s *HistoryStorage) UpdateStatus(ctx context.Context, userID, requestID, status string) error {
	record, err := s.Get(ctx, userID, requestID)
	if err != nil {
		return err
	}

	record.Status = status
	record.UpdatedAt = time.Now()

	if err := s.db.Store().Upsert(record.Key(), record); err != nil {
		return fmt.Errorf("failed to update history status: %w", err)
	}
	return nil
}
