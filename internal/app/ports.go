package app

import (
	"context"

	"vocab-quiz-service/internal/domain"
)

// SessionRepository keeps the single active session of each user (in-memory, Redis, etc).
type SessionRepository interface {
	Put(userID string, session *Session)
	Get(userID string) (*Session, bool)
	// DeleteIfCurrent removes the user's session only if it is still sessionID.
	DeleteIfCurrent(userID, sessionID string)
}

// VocabularyStore is the shared word pool and each user's subscribed subset.
type VocabularyStore interface {
	ListAllWords(ctx context.Context) ([]domain.Word, error)
	ListUserWordIDs(ctx context.Context, userID string) ([]string, error)
	ListUserWords(ctx context.Context, userID string) ([]domain.Word, error)
	// AddOrFindWord returns the existing word when both sides match case-insensitively.
	AddOrFindWord(ctx context.Context, w domain.NewWord) (domain.Word, error)
	// AddWordToUser reports false when the word was already subscribed.
	AddWordToUser(ctx context.Context, userID, wordID string) (bool, error)
	RemoveWordFromUser(ctx context.Context, userID, wordID string) error
}

// VocabularyCache serves read-through snapshots of a user's words.
type VocabularyCache interface {
	UserWords(ctx context.Context, userID string) ([]domain.Word, error)
	Invalidate(ctx context.Context, userID string)
}

// ResultStore persists finished quiz results and the users' cumulative scores.
type ResultStore interface {
	SaveResult(ctx context.Context, userID string, res domain.Result) (string, error)
	GetResult(ctx context.Context, id string) (domain.Result, error)
	ListResultsByUser(ctx context.Context, userID string) ([]domain.Result, error)
	HasDailyResult(ctx context.Context, userID, date string) (bool, error)
	UpdateAggregateScore(ctx context.Context, userID string, delta int) error
}

// CategoryStore lists the first-letter categories used to tag new words.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// DailyQuizStore keeps one word sample per date. CreateDailyQuiz must not
// overwrite an existing quiz; it returns whichever quiz is stored for the date.
type DailyQuizStore interface {
	GetDailyQuiz(ctx context.Context, date string) (domain.DailyQuiz, bool, error)
	CreateDailyQuiz(ctx context.Context, q domain.DailyQuiz) (domain.DailyQuiz, error)
}
