package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tasklight/tasklight/internal/core/ports"
)

const (
	defaultTimeout = 5 * time.Second

	fieldCredential = "credential"
	fieldIdentity   = "identity"
)

// RedisConfig captures the settings for establishing a Redis connection.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisStore persists the session in a redis hash, for deployments where a
// local file is wrong (shared terminals, ephemeral containers). Credential
// and identity live in one hash written and deleted as a unit.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a RedisStore scoped to the given profile name.
// Key format: session:<profile>
func NewRedisStore(client *redis.Client, profile string) *RedisStore {
	return &RedisStore{client: client, key: "session:" + profile}
}

func (r *RedisStore) Load(ctx context.Context) (ports.StoredSession, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return ports.StoredSession{}, fmt.Errorf("load session: %w", err)
	}
	return normalize(ports.StoredSession{
		Credential: fields[fieldCredential],
		Identity:   []byte(fields[fieldIdentity]),
	}), nil
}

func (r *RedisStore) Save(ctx context.Context, s ports.StoredSession) error {
	err := r.client.HSet(ctx, r.key,
		fieldCredential, s.Credential,
		fieldIdentity, string(s.Identity),
	).Err()
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
