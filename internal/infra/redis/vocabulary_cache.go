package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"vocab-quiz-service/internal/domain"
)

// WordLoader fetches a user's words from the backing vocabulary store.
type WordLoader interface {
	ListUserWords(ctx context.Context, userID string) ([]domain.Word, error)
}

// VocabularyCache caches each user's words in Redis and falls back to a loader on cache miss.
// Words are stored as a JSON array: SET vocab:user:{userID}:words [...]
type VocabularyCache struct {
	client *redis.Client
	loader WordLoader
	ttl    time.Duration
	logger *slog.Logger
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewVocabularyCache(client *redis.Client, loader WordLoader, ttl time.Duration, logger *slog.Logger) *VocabularyCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &VocabularyCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		logger: logger,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *VocabularyCache) UserWords(ctx context.Context, userID string) ([]domain.Word, error) {
	key := c.key(userID)
	if words, ok := c.read(ctx, key); ok {
		return words, nil
	}

	result, err, _ := c.sf.Do(userID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if words, ok := c.read(ctx, key); ok {
			return words, nil
		}

		words, err := c.loader.ListUserWords(ctx, userID)
		if err != nil {
			return nil, err
		}

		payload, err := json.Marshal(words)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(ctx, key, payload, c.ttlWithJitter()).Err(); err != nil {
			// the loaded words are still usable without the cache
			c.logger.WarnContext(ctx, "vocabulary cache write failed",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
		}
		return words, nil
	})
	if err != nil {
		return nil, err
	}
	words := result.([]domain.Word)
	return append([]domain.Word(nil), words...), nil
}

// Invalidate removes the cached words so the next read reloads them.
func (c *VocabularyCache) Invalidate(ctx context.Context, userID string) {
	c.sf.Forget(userID)
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		c.logger.WarnContext(ctx, "vocabulary cache invalidate failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
}

func (c *VocabularyCache) read(ctx context.Context, key string) ([]domain.Word, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "vocabulary cache read failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}
	var words []domain.Word
	if err := json.Unmarshal(raw, &words); err != nil {
		return nil, false
	}
	return words, true
}

func (c *VocabularyCache) key(userID string) string {
	return "vocab:user:" + userID + ":words"
}

func (c *VocabularyCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
