package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"justdoit/internal/models"
)

// RedisStore keeps the collection as a single string value in Redis.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis using either a redis:// URL or a
// "host:port,password=..." connection string.
func NewRedisStore(ctx context.Context, conn, key string) (*RedisStore, error) {
	opts, err := parseRedisConn(conn)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, unavailable("failed to reach redis", err)
	}

	return NewRedisStoreWithClient(client, key), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{client: client, key: key}
}

func parseRedisConn(conn string) (*redis.Options, error) {
	if conn == "" {
		return nil, errors.New("redis connection string is empty")
	}
	if opts, err := redis.ParseURL(conn); err == nil {
		return opts, nil
	}

	parts := strings.Split(conn, ",")
	opts := &redis.Options{Addr: strings.TrimSpace(parts[0])}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(kv[0])) {
		case "password":
			opts.Password = strings.TrimSpace(kv[1])
		case "username", "user":
			opts.Username = strings.TrimSpace(kv[1])
		}
	}
	if opts.Addr == "" {
		return nil, fmt.Errorf("invalid redis connection string %q", conn)
	}
	return opts, nil
}

// LoadAll reads the stored collection.
func (s *RedisStore) LoadAll(ctx context.Context) ([]models.Task, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []models.Task{}, nil
		}
		return nil, unavailable("failed to load tasks", err)
	}
	return decodeTasks(data, "redis"), nil
}

// SaveAll replaces the stored collection.
func (s *RedisStore) SaveAll(ctx context.Context, tasks []models.Task) error {
	data, err := encodeTasks(tasks)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return unavailable("failed to save tasks", err)
	}
	return nil
}

// Exists reports whether the key is set.
func (s *RedisStore) Exists(ctx context.Context) (bool, error) {
	n, err := s.client.Exists(ctx, s.key).Result()
	if err != nil {
		return false, unavailable("failed to check tasks", err)
	}
	return n > 0, nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
