package app

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"vocab-quiz-service/internal/domain"
)

const dateLayout = "2006-01-02"

// DailyQuizService hands out one shared word sample per UTC day.
type DailyQuizService struct {
	store   DailyQuizStore
	vocab   VocabularyStore
	results ResultStore
	count   int
	now     func() time.Time
	sf      singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewDailyQuizService(store DailyQuizStore, vocab VocabularyStore, results ResultStore, count int) *DailyQuizService {
	if count <= 0 {
		count = 10
	}
	return &DailyQuizService{
		store:   store,
		vocab:   vocab,
		results: results,
		count:   count,
		now:     time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithClock is used by tests to pin the calendar day.
func (d *DailyQuizService) WithClock(now func() time.Time) *DailyQuizService {
	d.now = now
	return d
}

// Date returns today's quiz date.
func (d *DailyQuizService) Date() string {
	return d.now().UTC().Format(dateLayout)
}

// Today returns the daily quiz for the current date, creating it on first use.
func (d *DailyQuizService) Today(ctx context.Context) (domain.DailyQuiz, error) {
	date := d.Date()
	if q, ok, err := d.store.GetDailyQuiz(ctx, date); err != nil {
		return domain.DailyQuiz{}, fmt.Errorf("get daily quiz: %w", err)
	} else if ok {
		return q, nil
	}

	result, err, _ := d.sf.Do(date, func() (interface{}, error) {
		if q, ok, err := d.store.GetDailyQuiz(ctx, date); err == nil && ok {
			return q, nil
		}
		words, err := d.vocab.ListAllWords(ctx)
		if err != nil {
			return domain.DailyQuiz{}, fmt.Errorf("list words: %w", err)
		}
		if len(words) == 0 {
			return domain.DailyQuiz{}, domain.ErrInsufficientVocabulary
		}
		q, err := d.store.CreateDailyQuiz(ctx, domain.DailyQuiz{
			Date:      date,
			Words:     d.sample(words),
			CreatedAt: d.now().UTC(),
		})
		if err != nil {
			return domain.DailyQuiz{}, &domain.StoreError{Op: "create daily quiz", Err: err}
		}
		return q, nil
	})
	if err != nil {
		return domain.DailyQuiz{}, err
	}
	return result.(domain.DailyQuiz), nil
}

// Completed reports whether userID already has a daily result for today.
func (d *DailyQuizService) Completed(ctx context.Context, userID string) (bool, error) {
	done, err := d.results.HasDailyResult(ctx, userID, d.Date())
	if err != nil {
		return false, fmt.Errorf("check daily result: %w", err)
	}
	return done, nil
}

func (d *DailyQuizService) sample(words []domain.Word) []domain.Word {
	shuffled := slices.Clone(words)
	d.mu.Lock()
	d.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	d.mu.Unlock()
	if len(shuffled) > d.count {
		shuffled = shuffled[:d.count]
	}
	return shuffled
}
