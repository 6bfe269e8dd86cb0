package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Store counts hits per key within a time window.
type Store interface {
	// Hit records one hit for key and returns the number of hits currently
	// inside the window, the new one included.
	Hit(ctx context.Context, key string, window time.Duration) (int, error)
}

// MemoryStore is a per-process sliding-window store.
type MemoryStore struct {
	mu   sync.Mutex
	hits map[string][]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hits: make(map[string][]time.Time)}
}

func (m *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-window)

	// Clean old entries
	if hits, exists := m.hits[key]; exists {
		valid := hits[:0]
		for _, hit := range hits {
			if hit.After(windowStart) {
				valid = append(valid, hit)
			}
		}
		m.hits[key] = valid
	}

	m.hits[key] = append(m.hits[key], now)
	return len(m.hits[key]), nil
}

// RedisStore shares a fixed-window counter across replicas.
type RedisStore struct {
	Client *redis.Client
}

func (r *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int, error) {
	bucket := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().UnixNano()/int64(window))
	n, err := r.Client.Incr(ctx, bucket).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		r.Client.Expire(ctx, bucket, window)
	}
	return int(n), nil
}

type Limiter struct {
	store   Store
	window  time.Duration
	maxHits int
}

func NewLimiter(store Store, window time.Duration, maxHits int) *Limiter {
	return &Limiter{
		store:   store,
		window:  window,
		maxHits: maxHits,
	}
}

// Allow reports whether key is still under its limit. A failing store fails
// open so a Redis outage cannot take the endpoint down with it.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	count, err := l.store.Hit(ctx, key, l.window)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Rate limit store unavailable, allowing request")
		return true
	}
	return count <= l.maxHits
}
