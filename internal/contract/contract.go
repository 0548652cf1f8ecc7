// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/scholar/schema"
)

// CacheManager defines the interface for managing the dataset cache and run history stores.
// This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetDatasetStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for key/value cache storage.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking scoring runs and per-applicant results.
type HistoryStore interface {
	// BeginRun creates a new scoring run and returns its ID
	BeginRun(startTime time.Time, datasetPath string, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalScored int) error

	// RecordApplicantScores stores the ranked results of a run
	RecordApplicantScores(runID int64, records []schema.ApplicantScoreRecord) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves every stored run, oldest first
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllApplicantScores retrieves every stored applicant score
	GetAllApplicantScores() ([]schema.ApplicantScoreRecord, error)

	// Close closes the underlying connection
	Close() error
}
