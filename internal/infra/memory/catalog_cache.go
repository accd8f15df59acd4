package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizhub/internal/app"
	"quizhub/internal/domain"
)

// CatalogCache implements app.QuizCollection over a collection store, caching
// the decoded catalog with a TTL so the whole-collection read is not repeated
// on every request. Replace writes through and refreshes the cache.
type CatalogCache struct {
	store app.CollectionStore
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu        sync.RWMutex
	cached    []domain.Quiz
	hasCache  bool
	expiresAt time.Time
}

func NewCatalogCache(store app.CollectionStore, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		store: store,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CatalogCache) Load(ctx context.Context) ([]domain.Quiz, error) {
	now := c.clock()

	c.mu.RLock()
	if c.hasCache && c.expiresAt.After(now) {
		quizzes := c.cached
		c.mu.RUnlock()
		return quizzes, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(app.CollectionQuizzes, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if c.hasCache && c.expiresAt.After(now) {
			quizzes := c.cached
			c.mu.RUnlock()
			return quizzes, nil
		}
		c.mu.RUnlock()

		quizzes, err := c.read(ctx)
		if err != nil {
			return nil, err
		}
		c.fill(quizzes, now)
		return quizzes, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Quiz), nil
}

func (c *CatalogCache) Replace(ctx context.Context, quizzes []domain.Quiz) error {
	if quizzes == nil {
		quizzes = []domain.Quiz{}
	}
	data, err := json.Marshal(quizzes)
	if err != nil {
		return fmt.Errorf("encode %s: %w", app.CollectionQuizzes, err)
	}
	if err := c.store.WriteAll(ctx, app.CollectionQuizzes, data); err != nil {
		return fmt.Errorf("write %s: %w", app.CollectionQuizzes, err)
	}
	c.fill(quizzes, c.clock())
	return nil
}

func (c *CatalogCache) read(ctx context.Context) ([]domain.Quiz, error) {
	data, err := c.store.ReadAll(ctx, app.CollectionQuizzes)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", app.CollectionQuizzes, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var quizzes []domain.Quiz
	if err := json.Unmarshal(data, &quizzes); err != nil {
		return nil, fmt.Errorf("decode %s: %w", app.CollectionQuizzes, err)
	}
	return quizzes, nil
}

func (c *CatalogCache) fill(quizzes []domain.Quiz, now time.Time) {
	c.mu.Lock()
	c.cached = quizzes
	c.hasCache = true
	c.expiresAt = now.Add(c.ttlWithJitter())
	c.mu.Unlock()
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
