package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "console"

// SessionStore persists the console session in Redis so it survives restarts.
// Key format: <prefix>:session:<key>
type SessionStore struct {
	client *redis.Client
	prefix string
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client, prefix string) *SessionStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &SessionStore{client: client, prefix: prefix}
}

// Get returns the stored value and whether the key exists.
func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get %s: %w", key, err)
	}
	return v, true, nil
}

// Set writes all entries in one MULTI/EXEC so token and admin never diverge.
func (s *SessionStore) Set(ctx context.Context, entries map[string]string) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for k, v := range entries {
			p.Set(ctx, s.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

// Delete removes the given keys; missing keys are ignored.
func (s *SessionStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) key(k string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, k)
}
