package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/storage"
)

// Store keeps each value under "sleeplit:<key>" in a Redis database. No TTL
// is set; values are durable for as long as the server persists them.
type Store struct {
	url    string
	client *redis.Client
}

func New(url string) *Store {
	return &Store{url: url}
}

// NewWithClient wraps an existing client. Used by tests.
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// IsConnString reports whether dsn selects this backend.
func IsConnString(dsn string) bool {
	return strings.HasPrefix(dsn, "redis://") || strings.HasPrefix(dsn, "rediss://")
}

func namespaced(key string) string {
	return constants.AppName + ":" + key
}

func (s *Store) Init(ctx context.Context) error {
	if s.client == nil {
		opts, err := redis.ParseURL(s.url)
		if err != nil {
			return fmt.Errorf("invalid redis url: %w", err)
		}
		s.client = redis.NewClient(opts)
	}
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.client != nil {
		err := s.client.Close()
		s.client = nil
		return err
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("storage not loaded")
	}
	val, err := s.client.Get(ctx, namespaced(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if s.client == nil {
		return fmt.Errorf("storage not loaded")
	}
	if err := s.client.Set(ctx, namespaced(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if s.client == nil {
		return fmt.Errorf("storage not loaded")
	}
	if err := s.client.Del(ctx, namespaced(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Location returns the server address without credentials.
func (s *Store) Location() string {
	if s.client != nil {
		return "redis://" + s.client.Options().Addr
	}
	if opts, err := redis.ParseURL(s.url); err == nil {
		return "redis://" + opts.Addr
	}
	return "redis"
}
