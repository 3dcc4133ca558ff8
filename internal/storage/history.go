package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"max.ks1230/fintrack-ml/internal/model/health"
)

// HealthRecord is one stored health assessment for a user.
type HealthRecord struct {
	UserID       string
	OverallScore float64
	Grade        string
	AssessedAt   time.Time
}

// InMemStorage keeps assessment history per user in process memory. It is
// the default when no postgres section is configured.
type InMemStorage struct {
	mu      sync.Mutex
	records map[string][]HealthRecord
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{records: make(map[string][]HealthRecord)}
}

func (s *InMemStorage) SaveAssessment(_ context.Context, userID string, a health.Assessment, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[userID] = append(s.records[userID], HealthRecord{
		UserID:       userID,
		OverallScore: a.OverallScore,
		Grade:        a.Grade,
		AssessedAt:   at,
	})
	return nil
}

// UserHistory returns the user's assessments since the cutoff, oldest
// first.
func (s *InMemStorage) UserHistory(_ context.Context, userID string, since time.Time) ([]HealthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []HealthRecord
	for _, r := range s.records[userID] {
		if !r.AssessedAt.Before(since) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AssessedAt.Before(out[j].AssessedAt)
	})
	return out, nil
}
