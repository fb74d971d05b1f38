package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"goal-route-service/internal/domain"
	"goal-route-service/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "route-session:"

// RedisStore persists search sessions in Redis, letting Redis expire them.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Load(ctx context.Context, key string) (_ domain.SearchSession, err error) {
	defer obs.Time(ctx, "session.redis.Load")(&err)

	b, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.SearchSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.SearchSession{}, fmt.Errorf("load session %q: %w", key, err)
	}

	var sess domain.SearchSession
	if err := json.Unmarshal(b, &sess); err != nil {
		return domain.SearchSession{}, fmt.Errorf("decode session %q: %w", key, err)
	}
	return sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess domain.SearchSession, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "session.redis.Save")(&err)

	if sess.Key == "" {
		return errors.New("save session: key must not be empty")
	}

	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %q: %w", sess.Key, err)
	}

	if err := s.client.Set(ctx, keyPrefix+sess.Key, b, ttl).Err(); err != nil {
		return fmt.Errorf("save session %q: %w", sess.Key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("delete session %q: %w", key, err)
	}
	return nil
}
