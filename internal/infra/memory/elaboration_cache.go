package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ElaborationCache keeps generated varietal descriptions with TTL so repeated
// lookups do not hit the text service. Concurrent misses share one load.
type ElaborationCache struct {
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu      sync.RWMutex
	rndMu   sync.Mutex
	entries map[string]cachedText
}

type cachedText struct {
	text      string
	expiresAt time.Time
}

func NewElaborationCache(ttl time.Duration) *ElaborationCache {
	return &ElaborationCache{
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		entries: make(map[string]cachedText),
	}
}

func (c *ElaborationCache) Get(ctx context.Context, key string, load func(ctx context.Context) (string, error)) (string, error) {
	if text, ok := c.lookup(key); ok {
		return text, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if text, ok := c.lookup(key); ok {
			return text, nil
		}
		text, err := load(ctx)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.entries[key] = cachedText{text: text, expiresAt: c.clock().Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *ElaborationCache) lookup(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return "", false
	}
	return entry.text, true
}

func (c *ElaborationCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter spreads expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
