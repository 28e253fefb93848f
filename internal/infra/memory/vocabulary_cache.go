package memory

import (
	"context"
	"math/rand"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"vocab-quiz-service/internal/domain"
)

// WordLoader fetches a user's words from the backing vocabulary store.
type WordLoader interface {
	ListUserWords(ctx context.Context, userID string) ([]domain.Word, error)
}

// VocabularyCache keeps per-user word snapshots with a TTL to avoid repeated store hits.
type VocabularyCache struct {
	loader WordLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedWords
}

type cachedWords struct {
	words     []domain.Word
	expiresAt time.Time
}

func NewVocabularyCache(loader WordLoader, ttl time.Duration) *VocabularyCache {
	return &VocabularyCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedWords),
	}
}

// UserWords returns a copy of the user's cached words, loading them on a miss.
func (c *VocabularyCache) UserWords(ctx context.Context, userID string) ([]domain.Word, error) {
	if words, ok := c.lookup(userID); ok {
		return words, nil
	}

	result, err, _ := c.sf.Do(userID, func() (interface{}, error) {
		if words, ok := c.lookup(userID); ok {
			return words, nil
		}

		words, err := c.loader.ListUserWords(ctx, userID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[userID] = cachedWords{
			words:     slices.Clone(words),
			expiresAt: c.clock().Add(c.ttlWithJitterLocked()),
		}
		c.mu.Unlock()
		return words, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(result.([]domain.Word)), nil
}

// Invalidate drops the user's snapshot so the next read reloads it.
func (c *VocabularyCache) Invalidate(_ context.Context, userID string) {
	c.mu.Lock()
	delete(c.cache, userID)
	c.mu.Unlock()
	c.sf.Forget(userID)
}

func (c *VocabularyCache) lookup(userID string) ([]domain.Word, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	if entry, ok := c.cache[userID]; ok && entry.expiresAt.After(now) {
		return slices.Clone(entry.words), true
	}
	return nil, false
}

func (c *VocabularyCache) ttlWithJitterLocked() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
