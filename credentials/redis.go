package credentials

import (
	"context"

	"github.com/kbukum/apiclient/redis"
)

// RedisStore keeps tokens in Redis under a key prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns a store using client. prefix namespaces the keys,
// e.g. "apiclient:alice" stores "apiclient:alice:access_token".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "apiclient"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(name string) string { return s.prefix + ":" + name }

func (s *RedisStore) Access() (string, error) { return s.get(accessKey) }

func (s *RedisStore) Refresh() (string, error) { return s.get(refreshKey) }

func (s *RedisStore) SetTokens(access, refresh string) error {
	ctx, cancel := s.client.Context(context.Background())
	defer cancel()
	if access == "" {
		if err := s.client.Del(ctx, s.key(accessKey)); err != nil {
			return err
		}
	}
	pairs := map[string]string{}
	if access != "" {
		pairs[s.key(accessKey)] = access
	}
	if refresh != "" {
		pairs[s.key(refreshKey)] = refresh
	}
	if len(pairs) == 0 {
		return nil
	}
	return s.client.SetMany(ctx, pairs)
}

func (s *RedisStore) Clear() error {
	ctx, cancel := s.client.Context(context.Background())
	defer cancel()
	return s.client.Del(ctx, s.key(accessKey), s.key(refreshKey))
}

func (s *RedisStore) get(name string) (string, error) {
	ctx, cancel := s.client.Context(context.Background())
	defer cancel()
	v, _, err := s.client.Get(ctx, s.key(name))
	return v, err
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
