package storage

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/storage/badger"
	"github.com/ternarybob/scribo/internal/storage/object"
)

// Manager implements the StorageManager interface: Badger for key/value,
// history, and pending-review state; an S3-compatible object store for
// pipeline artifacts.
type Manager struct {
	db       *badger.BadgerDB
	kv       interfaces.KeyValueStorage
	artifact interfaces.ArtifactStorage
	history  interfaces.HistoryStorage
	review   interfaces.ReviewStorage
	logger   arbor.ILogger
}

// NewManager creates the storage manager
func NewManager(config *common.StorageConfig, logger arbor.ILogger) (interfaces.StorageManager, error) {
	db, err := badger.NewBadgerDB(logger, &config.Badger)
	if err != nil {
		return nil, err
	}

	artifact, err := object.NewMinioStore(&config.Object, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	manager := &Manager{
		db:       db,
		kv:       badger.NewKVStorage(db, logger),
		artifact: artifact,
		history:  badger.NewHistoryStorage(db, logger),
		review:   badger.NewReviewStorage(db, logger),
		logger:   logger,
	}

	logger.Info().Msg("Storage manager initialized")
	return manager, nil
}

// KeyValueStorage returns the key/value storage interface
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// ArtifactStorage returns the artifact storage interface
func (m *Manager) ArtifactStorage() interfaces.ArtifactStorage {
	return m.artifact
}

// HistoryStorage returns the history storage interface
func (m *Manager) HistoryStorage() interfaces.HistoryStorage {
	return m.history
}

// ReviewStorage returns the pending-review storage interface
func (m *Manager) ReviewStorage() interfaces.ReviewStorage {
	return m.review
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
