package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"vocab-quiz-service/internal/domain"
)

type resultRow struct {
	bun.BaseModel `bun:"table:quiz_results,alias:r"`

	ID               string                `bun:"id,pk,type:uuid"`
	UserID           string                `bun:"user_id,notnull"`
	Direction        string                `bun:"direction,notnull"`
	FinalScore       int                   `bun:"final_score,notnull"`
	CorrectCount     int                   `bun:"correct_count,notnull"`
	WrongCount       int                   `bun:"wrong_count,notnull"`
	EmptyCount       int                   `bun:"empty_count,notnull"`
	Answers          []domain.AnswerRecord `bun:"answers,type:jsonb,notnull"`
	TotalQuestions   int                   `bun:"total_questions,notnull"`
	TimeTakenSeconds int                   `bun:"time_taken_seconds,notnull"`
	CompletedAt      time.Time             `bun:"completed_at,notnull"`
	Type             string                `bun:"type,notnull"`
	QuizDate         string                `bun:"quiz_date,notnull"`
}

type accountRow struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	UserID    string    `bun:"user_id,pk"`
	Score     int       `bun:"score,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// ResultStore persists quiz results and account scores with bun.
type ResultStore struct {
	db *bun.DB
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) SaveResult(ctx context.Context, userID string, res domain.Result) (string, error) {
	row := toResultRow(res)
	row.ID = uuid.NewString()
	row.UserID = userID
	if row.Answers == nil {
		row.Answers = []domain.AnswerRecord{}
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return "", fmt.Errorf("insert result: %w", err)
	}
	return row.ID, nil
}

func (s *ResultStore) GetResult(ctx context.Context, id string) (domain.Result, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Result{}, domain.ErrResultNotFound
	}
	var row resultRow
	err := s.db.NewSelect().Model(&row).Where("r.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Result{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.Result{}, fmt.Errorf("get result: %w", err)
	}
	return row.toDomain(), nil
}

func (s *ResultStore) ListResultsByUser(ctx context.Context, userID string) ([]domain.Result, error) {
	var rows []resultRow
	err := s.db.NewSelect().Model(&rows).
		Where("r.user_id = ?", userID).
		Order("r.completed_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	out := make([]domain.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *ResultStore) HasDailyResult(ctx context.Context, userID, date string) (bool, error) {
	exists, err := s.db.NewSelect().Model((*resultRow)(nil)).
		Where("r.user_id = ?", userID).
		Where("r.type = ?", string(domain.ResultDaily)).
		Where("r.quiz_date = ?", date).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check daily result: %w", err)
	}
	return exists, nil
}

// UpdateAggregateScore adds delta to the user's account, creating it on first use.
func (s *ResultStore) UpdateAggregateScore(ctx context.Context, userID string, delta int) error {
	row := accountRow{UserID: userID, Score: delta, UpdatedAt: time.Now().UTC()}
	_, err := s.db.NewInsert().Model(&row).
		On("CONFLICT (user_id) DO UPDATE").
		Set("score = a.score + EXCLUDED.score").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update account score: %w", err)
	}
	return nil
}

// AggregateScore returns the user's cumulative score, zero when no account exists.
func (s *ResultStore) AggregateScore(ctx context.Context, userID string) (int, error) {
	var row accountRow
	err := s.db.NewSelect().Model(&row).Where("a.user_id = ?", userID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get account score: %w", err)
	}
	return row.Score, nil
}

func toResultRow(res domain.Result) resultRow {
	return resultRow{
		Direction:        string(res.Direction),
		FinalScore:       res.FinalScore,
		CorrectCount:     res.CorrectCount,
		WrongCount:       res.WrongCount,
		EmptyCount:       res.EmptyCount,
		Answers:          res.Answers,
		TotalQuestions:   res.TotalQuestions,
		TimeTakenSeconds: res.TimeTakenSeconds,
		CompletedAt:      res.CompletedAt,
		Type:             string(res.Type),
		QuizDate:         res.QuizDate,
	}
}

func (r resultRow) toDomain() domain.Result {
	return domain.Result{
		ID:               r.ID,
		UserID:           r.UserID,
		Direction:        domain.Direction(r.Direction),
		FinalScore:       r.FinalScore,
		CorrectCount:     r.CorrectCount,
		WrongCount:       r.WrongCount,
		EmptyCount:       r.EmptyCount,
		Answers:          r.Answers,
		TotalQuestions:   r.TotalQuestions,
		TimeTakenSeconds: r.TimeTakenSeconds,
		CompletedAt:      r.CompletedAt.UTC(),
		Type:             domain.ResultType(r.Type),
		QuizDate:         r.QuizDate,
	}
}
