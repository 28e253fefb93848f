package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"vocab-quiz-service/internal/domain"
)

type dailyQuizRow struct {
	bun.BaseModel `bun:"table:daily_quizzes,alias:d"`

	QuizDate  string        `bun:"quiz_date,pk"`
	Words     []domain.Word `bun:"words,type:jsonb,notnull"`
	CreatedAt time.Time     `bun:"created_at,notnull"`
}

// DailyQuizStore keeps one word sample per date.
type DailyQuizStore struct {
	db *bun.DB
}

func NewDailyQuizStore(db *bun.DB) *DailyQuizStore {
	return &DailyQuizStore{db: db}
}

func (s *DailyQuizStore) GetDailyQuiz(ctx context.Context, date string) (domain.DailyQuiz, bool, error) {
	var row dailyQuizRow
	err := s.db.NewSelect().Model(&row).Where("d.quiz_date = ?", date).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DailyQuiz{}, false, nil
	}
	if err != nil {
		return domain.DailyQuiz{}, false, fmt.Errorf("get daily quiz: %w", err)
	}
	return row.toDomain(), true, nil
}

// CreateDailyQuiz stores q unless another instance already created the date's
// quiz; either way the stored quiz is returned.
func (s *DailyQuizStore) CreateDailyQuiz(ctx context.Context, q domain.DailyQuiz) (domain.DailyQuiz, error) {
	row := dailyQuizRow{QuizDate: q.Date, Words: q.Words, CreatedAt: q.CreatedAt}
	if row.Words == nil {
		row.Words = []domain.Word{}
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.NewInsert().Model(&row).On("CONFLICT (quiz_date) DO NOTHING").Exec(ctx)
	if err != nil {
		return domain.DailyQuiz{}, fmt.Errorf("insert daily quiz: %w", err)
	}

	stored, ok, err := s.GetDailyQuiz(ctx, q.Date)
	if err != nil {
		return domain.DailyQuiz{}, err
	}
	if !ok {
		return domain.DailyQuiz{}, fmt.Errorf("daily quiz %s vanished after insert", q.Date)
	}
	return stored, nil
}

func (r dailyQuizRow) toDomain() domain.DailyQuiz {
	return domain.DailyQuiz{Date: r.QuizDate, Words: r.Words, CreatedAt: r.CreatedAt.UTC()}
}
