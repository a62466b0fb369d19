package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent
var ErrMiss = errors.New("cache miss")

// TTL 상수 정의
const (
	TTLSchedule = 2 * time.Minute  // 일정 (이벤트 변경 시 무효화)
	TTLThreads  = 30 * time.Second // DM 스레드 목록
	TTLUnread   = 30 * time.Second
	TTLNotices  = 2 * time.Minute
)

// 캐시 키 접두사
const (
	PrefixSchedule = "schedule:"
	PrefixThreads  = "dm:threads:"
	PrefixThread   = "dm:thread:"
	PrefixUnread   = "dm:unread"
	PrefixNotices  = "notices:"
)

// Service is the cache used by services and the realtime invalidator
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
	IsAvailable() bool
}

// redisCache Redis 기반 캐시 구현
type redisCache struct {
	client *redis.Client
}

// NewService 새로운 캐시 서비스 생성
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable Redis 연결 가능 여부
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Get 캐시에서 값 조회
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrMiss
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set 캐시에 값 저장
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // Redis 없으면 무시
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete 캐시 삭제
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// DeletePrefix removes every key starting with prefix
func (c *redisCache) DeletePrefix(ctx context.Context, prefix string) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, prefix+"*")
}

func (c *redisCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// ThreadsKey is the key of one page of the admin thread list
func ThreadsKey(offset, limit int) string {
	return fmt.Sprintf("%s%d:%d", PrefixThreads, offset, limit)
}

// ThreadKey is the key of a single thread with metadata
func ThreadKey(threadID uint64) string {
	return fmt.Sprintf("%s%d", PrefixThread, threadID)
}

// ScheduleKey is the key of a user's visible event set for a date range
func ScheduleKey(userID uint64, from, to time.Time) string {
	return fmt.Sprintf("%s%d:%d:%d", PrefixSchedule, userID, from.Unix(), to.Unix())
}
