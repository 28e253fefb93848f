package memory

import (
	"context"
	"sync"

	"vocab-quiz-service/internal/domain"
)

// DailyQuizStore keeps daily quizzes by date.
type DailyQuizStore struct {
	mu      sync.Mutex
	quizzes map[string]domain.DailyQuiz
}

func NewDailyQuizStore() *DailyQuizStore {
	return &DailyQuizStore{quizzes: make(map[string]domain.DailyQuiz)}
}

func (s *DailyQuizStore) GetDailyQuiz(_ context.Context, date string) (domain.DailyQuiz, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quizzes[date]
	return q, ok, nil
}

func (s *DailyQuizStore) CreateDailyQuiz(_ context.Context, q domain.DailyQuiz) (domain.DailyQuiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.quizzes[q.Date]; ok {
		return existing, nil
	}
	s.quizzes[q.Date] = q
	return q, nil
}
