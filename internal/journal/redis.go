package journal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisKey   = "quizdesk:attempts"
	defaultMaxEntries = 100
)

// RedisRecorder keeps a capped list of attempts under one key.
type RedisRecorder struct {
	client     redis.UniversalClient
	key        string
	maxEntries int64
}

var _ Recorder = (*RedisRecorder)(nil)

func NewRedisRecorder(client redis.UniversalClient, key string, maxEntries int) *RedisRecorder {
	if key == "" {
		key = defaultRedisKey
	}
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &RedisRecorder{client: client, key: key, maxEntries: int64(maxEntries)}
}

// Record pushes the attempt to the head of the list and trims the tail.
func (r *RedisRecorder) Record(ctx context.Context, a Attempt) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, r.key, data)
		pipe.LTrim(ctx, r.key, 0, r.maxEntries-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

func (r *RedisRecorder) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	if limit <= 0 {
		return nil, nil
	}
	raw, err := r.client.LRange(ctx, r.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	attempts := make([]Attempt, 0, len(raw))
	for _, item := range raw {
		var a Attempt
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			return nil, fmt.Errorf("decode attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}
