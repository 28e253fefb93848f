package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"vocab-quiz-service/internal/domain"
)

// VocabularyStore is an in-memory word pool with per-user subscriptions.
// It also serves categories.
type VocabularyStore struct {
	mu         sync.RWMutex
	words      []domain.Word
	byID       map[string]int
	userWords  map[string][]string
	categories []domain.Category
}

func NewVocabularyStore(categories []domain.Category) *VocabularyStore {
	return &VocabularyStore{
		byID:       make(map[string]int),
		userWords:  make(map[string][]string),
		categories: slices.Clone(categories),
	}
}

func (s *VocabularyStore) ListAllWords(_ context.Context) ([]domain.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.words), nil
}

func (s *VocabularyStore) ListUserWordIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.userWords[userID]), nil
}

func (s *VocabularyStore) ListUserWords(_ context.Context, userID string) ([]domain.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.userWords[userID]
	words := make([]domain.Word, 0, len(ids))
	for _, id := range ids {
		// ids of deleted words are skipped
		if idx, ok := s.byID[id]; ok {
			words = append(words, s.words[idx])
		}
	}
	return words, nil
}

func (s *VocabularyStore) AddOrFindWord(_ context.Context, w domain.NewWord) (domain.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.words {
		if strings.EqualFold(existing.Eng, w.Eng) && strings.EqualFold(existing.Tr, w.Tr) {
			return existing, nil
		}
	}
	word := domain.Word{
		ID:            uuid.NewString(),
		Eng:           w.Eng,
		Tr:            w.Tr,
		EngCategoryID: w.EngCategoryID,
		TrCategoryID:  w.TrCategoryID,
	}
	s.byID[word.ID] = len(s.words)
	s.words = append(s.words, word)
	return word, nil
}

func (s *VocabularyStore) AddWordToUser(_ context.Context, userID, wordID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[wordID]; !ok {
		return false, domain.ErrWordNotFound
	}
	if slices.Contains(s.userWords[userID], wordID) {
		return false, nil
	}
	s.userWords[userID] = append(s.userWords[userID], wordID)
	return true, nil
}

func (s *VocabularyStore) RemoveWordFromUser(_ context.Context, userID, wordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userWords[userID] = slices.DeleteFunc(s.userWords[userID], func(id string) bool {
		return id == wordID
	})
	return nil
}

func (s *VocabularyStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories), nil
}

// UpsertCategory creates the category or renames an existing one.
func (s *VocabularyStore) UpsertCategory(_ context.Context, c domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == c.ID {
			s.categories[i].Name = c.Name
			return nil
		}
	}
	s.categories = append(s.categories, c)
	return nil
}
