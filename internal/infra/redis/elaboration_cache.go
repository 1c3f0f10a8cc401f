package redis

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ElaborationCache shares generated varietal descriptions across instances
// and falls back to the loader on a miss. Redis failures degrade to loading.
type ElaborationCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
	sf        singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewElaborationCache(client *redis.Client, namespace string, ttl time.Duration) *ElaborationCache {
	return &ElaborationCache{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ElaborationCache) Get(ctx context.Context, key string, load func(ctx context.Context) (string, error)) (string, error) {
	cacheKey := elaborationKey(c.namespace, key)
	if text, err := c.client.Get(ctx, cacheKey).Result(); err == nil {
		return text, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another instance filled it.
		if text, err := c.client.Get(ctx, cacheKey).Result(); err == nil {
			return text, nil
		}

		text, err := load(ctx)
		if err != nil {
			return "", err
		}
		_ = c.client.Set(ctx, cacheKey, text, c.ttlWithJitter()).Err()
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *ElaborationCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
