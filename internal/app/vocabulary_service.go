package app

import (
	"context"
	"fmt"
	"strings"

	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/quiz"
)

// VocabularyService manages the word pool and the users' word lists.
type VocabularyService struct {
	store      VocabularyStore
	categories CategoryStore
	cache      VocabularyCache
	norm       *quiz.Normalizer
}

func NewVocabularyService(store VocabularyStore, categories CategoryStore, cache VocabularyCache, norm *quiz.Normalizer) *VocabularyService {
	if norm == nil {
		norm = quiz.NewNormalizer(nil)
	}
	return &VocabularyService{store: store, categories: categories, cache: cache, norm: norm}
}

// AddWord adds (or finds) the eng/tr pair in the pool and subscribes userID to it.
// added is false when the user already had the word.
func (s *VocabularyService) AddWord(ctx context.Context, userID, eng, tr string) (word domain.Word, added bool, err error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Word{}, false, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	word, err = s.ImportWord(ctx, eng, tr)
	if err != nil {
		return domain.Word{}, false, err
	}

	added, err = s.store.AddWordToUser(ctx, userID, word.ID)
	if err != nil {
		return word, false, &domain.StoreError{Op: "add word to user", Err: err}
	}
	s.cache.Invalidate(ctx, userID)
	return word, added, nil
}

// ImportWord adds (or finds) the eng/tr pair in the shared pool, tagging each
// side with the category of its first letter.
func (s *VocabularyService) ImportWord(ctx context.Context, eng, tr string) (domain.Word, error) {
	eng, tr = strings.TrimSpace(eng), strings.TrimSpace(tr)
	if eng == "" || tr == "" {
		return domain.Word{}, fmt.Errorf("%w: eng and tr are required", domain.ErrValidation)
	}

	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return domain.Word{}, fmt.Errorf("list categories: %w", err)
	}

	word, err := s.store.AddOrFindWord(ctx, domain.NewWord{
		Eng:           eng,
		Tr:            tr,
		EngCategoryID: categoryFor(categories, s.norm.Group(eng, domain.DirectionTrEng)),
		TrCategoryID:  categoryFor(categories, s.norm.Group(tr, domain.DirectionEngTr)),
	})
	if err != nil {
		return domain.Word{}, &domain.StoreError{Op: "add word", Err: err}
	}
	return word, nil
}

// RemoveWord unsubscribes userID from wordID.
func (s *VocabularyService) RemoveWord(ctx context.Context, userID, wordID string) error {
	if err := s.store.RemoveWordFromUser(ctx, userID, wordID); err != nil {
		return &domain.StoreError{Op: "remove word from user", Err: err}
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

// UserWords returns the cached snapshot of the user's words.
func (s *VocabularyService) UserWords(ctx context.Context, userID string) ([]domain.Word, error) {
	return s.cache.UserWords(ctx, userID)
}

// Pool returns every word known to the service.
func (s *VocabularyService) Pool(ctx context.Context) ([]domain.Word, error) {
	return s.store.ListAllWords(ctx)
}

func (s *VocabularyService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.ListCategories(ctx)
}

// categoryFor matches a first letter against category ids and names and falls
// back to the letter itself.
func categoryFor(categories []domain.Category, letter string) string {
	for _, c := range categories {
		if c.ID == letter || c.Name == letter {
			return c.ID
		}
	}
	for _, c := range categories {
		if c.Name != "" && strings.Contains(c.Name, letter) {
			return c.ID
		}
	}
	return letter
}
