package quota

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterTTL is how long a quota counter lives after its last write.
const CounterTTL = 24 * time.Hour

// Counter is the minimal TTL key-value surface the quota store needs.
type Counter interface {
	// Get returns the counter value and whether the key exists.
	Get(ctx context.Context, key string) (int, bool, error)
	// Set writes the counter value with a fresh TTL.
	Set(ctx context.Context, key string, value int, ttl time.Duration) error
}

// Store wraps a Counter with fail-open semantics: when the backing store is
// unconfigured or unreachable, reads report Unavailable instead of an error
// and callers skip enforcement.
type Store struct {
	counter Counter
}

// NewStore creates a Store over the given counter. A nil counter yields a
// store that is permanently unavailable, i.e. quota enforcement is disabled.
func NewStore(counter Counter) *Store {
	return &Store{counter: counter}
}

// NewRedisStore creates a Store over the process-wide Redis client. If
// InitRedis was never called or failed, the store is unavailable.
func NewRedisStore() *Store {
	if rdb == nil {
		return &Store{}
	}
	return &Store{counter: redisCounter{client: rdb}}
}

// Available reports whether the backing store is configured.
func (s *Store) Available() bool {
	return s != nil && s.counter != nil
}

// Count reads the counter at key. The second return is false when the store
// is unavailable or the read failed; absent keys read as 0 with ok=true.
func (s *Store) Count(ctx context.Context, key string) (int, bool) {
	if !s.Available() {
		return 0, false
	}
	n, exists, err := s.counter.Get(ctx, key)
	if err != nil {
		log.Printf("quota store read failed for %s: %v", key, err)
		return 0, false
	}
	if !exists {
		return 0, true
	}
	return n, true
}

// SetCount writes the counter at key with a refreshed TTL. Failures are
// logged and swallowed.
func (s *Store) SetCount(ctx context.Context, key string, value int) {
	if !s.Available() {
		return
	}
	if err := s.counter.Set(ctx, key, value, CounterTTL); err != nil {
		log.Printf("quota store write failed for %s: %v", key, err)
	}
}

// DailyKey is the counter of topics a session token has started on a day.
func DailyKey(token, date string) string {
	return fmt.Sprintf("limit:%s:%s", token, date)
}

// TokenKey is the counter of model tokens a session token has spent on a
// theme on a day.
func TokenKey(token, date, theme string) string {
	return fmt.Sprintf("tokens:%s:%s:%s", token, date, theme)
}

// Today returns the UTC calendar date used in counter keys.
func Today() string {
	return time.Now().UTC().Format("2006-01-02")
}

type redisCounter struct {
	client *redis.Client
}

func (c redisCounter) Get(ctx context.Context, key string) (int, bool, error) {
	n, err := c.client.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (c redisCounter) Set(ctx context.Context, key string, value int, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}
