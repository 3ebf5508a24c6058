package prefs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// darkModeKey is the single fixed key the storefront persists across
// restarts. Every other piece of session state is in-memory only.
const darkModeKey = "storefront:prefs:dark_mode"

// Store holds the one cross-session display preference.
type Store interface {
	DarkMode(ctx context.Context) (bool, error)
	SetDarkMode(ctx context.Context, enabled bool) error
	Close() error
}

// RedisStore persists the preference in Redis.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{rdb: rdb}, nil
}

// DarkMode reads the persisted preference. A missing key reads as false.
func (s *RedisStore) DarkMode(ctx context.Context) (bool, error) {
	val, err := s.rdb.Get(ctx, darkModeKey).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read dark mode preference: %w", err)
	}
	return val == "true", nil
}

// SetDarkMode writes the persisted preference.
func (s *RedisStore) SetDarkMode(ctx context.Context, enabled bool) error {
	val := "false"
	if enabled {
		val = "true"
	}
	if err := s.rdb.Set(ctx, darkModeKey, val, 0).Err(); err != nil {
		return fmt.Errorf("failed to write dark mode preference: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// MemoryStore keeps the preference in process memory. Used as a fallback
// when Redis is unavailable, and in tests; the value does not survive a
// restart.
type MemoryStore struct {
	mu       sync.Mutex
	darkMode bool
}

// NewMemoryStore returns an empty in-memory preference store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) DarkMode(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkMode, nil
}

func (s *MemoryStore) SetDarkMode(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.darkMode = enabled
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
