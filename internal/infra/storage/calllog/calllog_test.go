package calllog

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/ptr"
)

type repository interface {
	Append(ctx context.Context, entry domain.CallLogEntry) error
	Recent(ctx context.Context, limit int) ([]domain.CallLogEntry, int, error)
	Clear(ctx context.Context) error
}

func newRedisRepository(t *testing.T, maxEntries int) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRepository(client, "receptionist:call_logs", maxEntries), mr
}

func entry(i int) domain.CallLogEntry {
	return domain.CallLogEntry{
		ID:        fmt.Sprintf("log-%d", i),
		Type:      domain.CallLogFunctionCall,
		Timestamp: time.Date(2026, 2, 18, 9, i, 0, 0, time.UTC),
		CallID:    "call-1",
		Function:  "check_availability",
		Params:    json.RawMessage(`{"date":"2026-02-18"}`),
		Success:   ptr.Ptr(true),
	}
}

func TestRepositories(t *testing.T) {
	redisRepo, _ := newRedisRepository(t, 3)
	repos := map[string]repository{
		"memory": NewMemoryRepository(3),
		"redis":  redisRepo,
	}

	for name, repo := range repos {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 5; i++ {
				require.NoError(t, repo.Append(ctx, entry(i)))
			}

			recent, total, err := repo.Recent(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, 5, total)
			require.Len(t, recent, 2)
			assert.Equal(t, "log-4", recent[0].ID)
			assert.Equal(t, "log-3", recent[1].ID)
			assert.JSONEq(t, `{"date":"2026-02-18"}`, string(recent[0].Params))

			// Хранится не больше maxEntries записей
			all, _, err := repo.Recent(ctx, 50)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "log-2", all[2].ID)

			require.NoError(t, repo.Clear(ctx))
			empty, total, err := repo.Recent(ctx, 50)
			require.NoError(t, err)
			assert.Empty(t, empty)
			assert.Zero(t, total)
		})
	}
}

func TestRedisRepository_SkipsCorruptedEntries(t *testing.T) {
	repo, mr := newRedisRepository(t, 10)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, entry(1)))
	_, err := mr.Lpush("receptionist:call_logs", "{not json")
	require.NoError(t, err)

	recent, _, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "log-1", recent[0].ID)
}

func TestRedisRepository_Unavailable(t *testing.T) {
	repo, mr := newRedisRepository(t, 10)
	mr.Close()

	err := repo.Append(context.Background(), entry(1))
	assert.ErrorIs(t, err, ErrRedis)
}
