package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"lendmatch/internal/ratelimit/models"
)

// slidingWindowScript trims the window, then admits the request when a slot
// is free. Returns {allowed, count, oldest_ms}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count < limit then
  redis.call('ZADD', key, now, member)
  count = count + 1
  allowed = 1
end
redis.call('PEXPIRE', key, window)

local oldest = now
local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if first[2] then
  oldest = tonumber(first[2])
end
return {allowed, count, oldest}
`)

// RedisBucketStore is a sliding window shared by every replica.
type RedisBucketStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisBucketStore(client *redis.Client) *RedisBucketStore {
	return &RedisBucketStore{client: client, now: time.Now}
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error) {
	now := s.now()
	nowMs := now.UnixMilli()
	raw, err := slidingWindowScript.Run(ctx, s.client, []string{key},
		nowMs, window.Milliseconds(), limit, strconv.FormatInt(nowMs, 10)+"-"+uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("run sliding window script: %w", err)
	}
	if len(raw) != 3 {
		return nil, fmt.Errorf("unexpected sliding window reply: %v", raw)
	}

	resetAt := time.UnixMilli(raw[2]).Add(window)
	if raw[0] == 0 {
		return denied(limit, now, resetAt), nil
	}
	return &models.Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - int(raw[1]),
		ResetAt:   resetAt,
	}, nil
}

func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("reset bucket: %w", err)
	}
	return nil
}

// Count returns the entries recorded since the key's last trim.
func (s *RedisBucketStore) Count(ctx context.Context, key string) (int, error) {
	n, err := s.client.ZCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("count bucket: %w", err)
	}
	return int(n), nil
}
