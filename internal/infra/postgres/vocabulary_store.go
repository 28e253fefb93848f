package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"vocab-quiz-service/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var wordColumns = []string{"w.id::text", "w.eng", "w.tr", "w.eng_category_id", "w.tr_category_id"}

// VocabularyStore reads and writes the shared word pool with pgx.
type VocabularyStore struct {
	pool *pgxpool.Pool
}

func NewVocabularyStore(pool *pgxpool.Pool) *VocabularyStore {
	return &VocabularyStore{pool: pool}
}

func (s *VocabularyStore) ListAllWords(ctx context.Context) ([]domain.Word, error) {
	query := psql.Select(wordColumns...).From("words w").OrderBy("w.created_at", "w.id")
	words, err := s.queryWords(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	return words, nil
}

func (s *VocabularyStore) ListUserWordIDs(ctx context.Context, userID string) ([]string, error) {
	sql, args, err := psql.Select("word_id::text").
		From("user_words").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("added_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list user word ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user word id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *VocabularyStore) ListUserWords(ctx context.Context, userID string) ([]domain.Word, error) {
	query := psql.Select(wordColumns...).
		From("user_words uw").
		Join("words w ON w.id = uw.word_id").
		Where(squirrel.Eq{"uw.user_id": userID}).
		OrderBy("uw.added_at")
	words, err := s.queryWords(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list user words: %w", err)
	}
	return words, nil
}

// AddOrFindWord inserts the pair unless a word with the same sides (ignoring
// case) exists, then returns the stored row.
func (s *VocabularyStore) AddOrFindWord(ctx context.Context, w domain.NewWord) (domain.Word, error) {
	sql, args, err := psql.Insert("words").
		Columns("id", "eng", "tr", "eng_category_id", "tr_category_id").
		Values(uuid.NewString(), w.Eng, w.Tr, w.EngCategoryID, w.TrCategoryID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return domain.Word{}, err
	}
	if _, err := s.pool.Exec(ctx, sql, args...); err != nil {
		return domain.Word{}, fmt.Errorf("insert word: %w", err)
	}

	words, err := s.queryWords(ctx, psql.Select(wordColumns...).
		From("words w").
		Where("lower(w.eng) = lower(?)", w.Eng).
		Where("lower(w.tr) = lower(?)", w.Tr))
	if err != nil {
		return domain.Word{}, fmt.Errorf("find word: %w", err)
	}
	if len(words) == 0 {
		return domain.Word{}, fmt.Errorf("find word %s/%s: %w", w.Eng, w.Tr, pgx.ErrNoRows)
	}
	return words[0], nil
}

func (s *VocabularyStore) AddWordToUser(ctx context.Context, userID, wordID string) (bool, error) {
	if _, err := uuid.Parse(wordID); err != nil {
		return false, domain.ErrWordNotFound
	}
	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM words WHERE id=$1)`, wordID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check word: %w", err)
	}
	if !exists {
		return false, domain.ErrWordNotFound
	}

	sql, args, err := psql.Insert("user_words").
		Columns("user_id", "word_id").
		Values(userID, wordID).
		Suffix("ON CONFLICT (user_id, word_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, err
	}
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("add user word: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *VocabularyStore) RemoveWordFromUser(ctx context.Context, userID, wordID string) error {
	if _, err := uuid.Parse(wordID); err != nil {
		return nil
	}
	sql, args, err := psql.Delete("user_words").
		Where(squirrel.Eq{"user_id": userID, "word_id": wordID}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("remove user word: %w", err)
	}
	return nil
}

func (s *VocabularyStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpsertCategory creates the category or renames an existing one.
func (s *VocabularyStore) UpsertCategory(ctx context.Context, c domain.Category) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO categories (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`, c.ID, c.Name)
	if err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}
	return nil
}

func (s *VocabularyStore) queryWords(ctx context.Context, query squirrel.SelectBuilder) ([]domain.Word, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []domain.Word
	for rows.Next() {
		var w domain.Word
		if err := rows.Scan(&w.ID, &w.Eng, &w.Tr, &w.EngCategoryID, &w.TrCategoryID); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}
