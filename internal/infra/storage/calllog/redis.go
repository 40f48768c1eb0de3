package calllog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
)

// RedisRepository журнал звонков в Redis: список LPUSH + LTRIM и счётчик всех записей
type RedisRepository struct {
	client     redis.Cmdable
	key        string
	totalKey   string
	maxEntries int64
}

// NewRedisRepository создает журнал в списке key
func NewRedisRepository(client redis.Cmdable, key string, maxEntries int) *RedisRepository {
	if maxEntries <= 0 {
		maxEntries = domain.DefaultCallLogMaxEntries
	}
	return &RedisRepository{
		client:     client,
		key:        key,
		totalKey:   key + ":total",
		maxEntries: int64(maxEntries),
	}
}

// Append добавляет запись
func (r *RedisRepository) Append(ctx context.Context, entry domain.CallLogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshalEntry, err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, r.key, data)
	pipe.LTrim(ctx, r.key, 0, r.maxEntries-1)
	pipe.Incr(ctx, r.totalKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: Append: %v", ErrRedis, err)
	}
	return nil
}

// Recent возвращает до limit последних записей (новые первыми) и общее число записей
func (r *RedisRepository) Recent(ctx context.Context, limit int) ([]domain.CallLogEntry, int, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	raw, err := r.client.LRange(ctx, r.key, 0, stop).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: Recent - lrange: %v", ErrRedis, err)
	}

	total, err := r.client.Get(ctx, r.totalKey).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, fmt.Errorf("%w: Recent - get total: %v", ErrRedis, err)
	}

	entries := make([]domain.CallLogEntry, 0, len(raw))
	for _, item := range raw {
		var entry domain.CallLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			// Повреждённые записи пропускаем
			continue
		}
		entries = append(entries, entry)
	}
	return entries, total, nil
}

// Clear удаляет все записи
func (r *RedisRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key, r.totalKey).Err(); err != nil {
		return fmt.Errorf("%w: Clear: %v", ErrRedis, err)
	}
	return nil
}
