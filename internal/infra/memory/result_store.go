package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"vocab-quiz-service/internal/domain"
)

// ResultStore keeps quiz results and aggregate scores in memory.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string]domain.Result
	order   []string
	scores  map[string]int
}

func NewResultStore() *ResultStore {
	return &ResultStore{
		results: make(map[string]domain.Result),
		scores:  make(map[string]int),
	}
}

func (s *ResultStore) SaveResult(_ context.Context, userID string, res domain.Result) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res.ID = uuid.NewString()
	res.UserID = userID
	res.Answers = slices.Clone(res.Answers)
	s.results[res.ID] = res
	s.order = append(s.order, res.ID)
	return res.ID, nil
}

func (s *ResultStore) GetResult(_ context.Context, id string) (domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.results[id]
	if !ok {
		return domain.Result{}, domain.ErrResultNotFound
	}
	res.Answers = slices.Clone(res.Answers)
	return res, nil
}

func (s *ResultStore) ListResultsByUser(_ context.Context, userID string) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Result
	for _, id := range s.order {
		if res := s.results[id]; res.UserID == userID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (s *ResultStore) HasDailyResult(_ context.Context, userID, date string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, res := range s.results {
		if res.UserID == userID && res.Type == domain.ResultDaily && res.QuizDate == date {
			return true, nil
		}
	}
	return false, nil
}

func (s *ResultStore) UpdateAggregateScore(_ context.Context, userID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[userID] += delta
	return nil
}

// AggregateScore returns the user's cumulative score.
func (s *ResultStore) AggregateScore(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scores[userID]
}

// Count returns the number of stored results.
func (s *ResultStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}
