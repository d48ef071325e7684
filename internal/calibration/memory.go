package calibration

import (
	"context"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/pkg/models"
)

// MemoryStore is an in-memory RecordStore. Used when the engine runs
// without Postgres and by the package tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.CalibrationRecord
}

// NewMemoryStore creates an empty in-memory record store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]models.CalibrationRecord),
	}
}

// Upsert replaces the record for a game, outcome fields included
func (s *MemoryStore) Upsert(_ context.Context, record models.CalibrationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.Result = nil
	record.ActualMargin = nil
	record.ClosingLine = nil
	record.GradedAt = nil
	s.records[record.GameID] = record
	return nil
}

// Get returns a copy of the record for a game, or nil
func (s *MemoryStore) Get(_ context.Context, gameID string) (*models.CalibrationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[gameID]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// SetOutcome fills the outcome fields of an existing prediction
func (s *MemoryStore) SetOutcome(_ context.Context, gameID string, result models.BetResult, actualMargin, closingLine float64, gradedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[gameID]
	if !ok {
		return false, nil
	}

	record.Result = &result
	record.ActualMargin = &actualMargin
	record.ClosingLine = &closingLine
	record.GradedAt = &gradedAt
	s.records[gameID] = record
	return true, nil
}

// List returns records for a league predicted at or after since
func (s *MemoryStore) List(_ context.Context, league string, since time.Time) ([]models.CalibrationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []models.CalibrationRecord
	for _, record := range s.records {
		if record.League != league {
			continue
		}
		if record.PredictedAt.Before(since) {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
