package chathistory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// listClient is the subset of *redis.Client the store needs.
type listClient interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps each user's history in a Redis list of JSON messages,
// trimmed to limit entries and expiring ttl after the last append.
type RedisStore struct {
	rdb   listClient
	limit int
	ttl   time.Duration
}

func NewRedisStore(rdb *redis.Client, limit int, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, limit: limit, ttl: ttl}
}

func key(userID int64) string {
	return fmt.Sprintf("mindcare:chat:%d", userID)
}

func (s *RedisStore) Append(ctx context.Context, userID int64, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(msgs))
	for _, m := range msgs {
		b, err := json.Marshal(m)
		if err != nil {
			return err
		}
		values = append(values, b)
	}

	k := key(userID)
	if err := s.rdb.RPush(ctx, k, values...).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if s.limit > 0 {
		if err := s.rdb.LTrim(ctx, k, int64(-s.limit), -1).Err(); err != nil {
			return fmt.Errorf("redis error: %w", err)
		}
	}
	if s.ttl > 0 {
		if err := s.rdb.Expire(ctx, k, s.ttl).Err(); err != nil {
			return fmt.Errorf("redis error: %w", err)
		}
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, userID int64) ([]Message, error) {
	raw, err := s.rdb.LRange(ctx, key(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	out := make([]Message, 0, len(raw))
	for _, r := range raw {
		var m Message
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			return nil, fmt.Errorf("corrupt chat history entry: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	if err := s.rdb.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
