package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"career_assistant/pkg"
	"career_assistant/src/logger"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "history:"

// RedisStore keeps the log as one JSON value under a single key
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore connects to redisURL and verifies the connection
func NewRedisStore(ctx context.Context, redisURL, key string, ttl time.Duration) (*RedisStore, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required for the redis backend: %w", ErrNotConfigured)
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreFromClient(client, key, ttl), nil
}

// NewRedisStoreFromClient wraps an existing client. A zero ttl keeps the key forever.
func NewRedisStoreFromClient(client *redis.Client, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		key:    keyPrefix + key,
		ttl:    ttl,
	}
}

// Key returns the Redis key holding the log
func (r *RedisStore) Key() string {
	return r.key
}

// Load reads the log. A missing key is an empty log. A value that cannot be
// parsed is renamed to <key>.corrupt-<unix> so the next Save does not destroy
// it, and an empty log is returned.
func (r *RedisStore) Load(ctx context.Context) ([]pkg.Turn, error) {
	data, err := r.get(ctx)
	if err != nil {
		return nil, err
	}

	turns, err := decode([]byte(data))
	if err != nil {
		quarantine := fmt.Sprintf("%s.corrupt-%d", r.key, time.Now().Unix())
		if renameErr := r.client.Rename(ctx, r.key, quarantine).Err(); renameErr != nil {
			return nil, fmt.Errorf("history value is corrupt and could not be moved aside: %w", errors.Join(err, renameErr))
		}
		logger.Error().
			Err(err).
			Str("key", r.key).
			Str("moved_to", quarantine).
			Msg("History value is corrupt, starting with empty history")
		return []pkg.Turn{}, nil
	}
	return turns, nil
}

// Peek reads the log without touching a corrupt value
func (r *RedisStore) Peek(ctx context.Context) ([]pkg.Turn, error) {
	data, err := r.get(ctx)
	if err != nil {
		return nil, err
	}
	return decode([]byte(data))
}

// get returns "null" for a missing key, which decodes to an empty log
func (r *RedisStore) get(ctx context.Context) (string, error) {
	data, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "null", nil
		}
		return "", fmt.Errorf("failed to load history: %w", err)
	}
	return data, nil
}

func (r *RedisStore) Save(ctx context.Context, turns []pkg.Turn) error {
	if turns == nil {
		turns = []pkg.Turn{}
	}

	data, err := sonic.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	return r.client.Set(ctx, r.key, data, r.ttl).Err()
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}
