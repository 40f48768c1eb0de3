package slot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/memtx"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/ptr"
)

func newSeededMemory(t *testing.T) *MemoryRepository {
	t.Helper()
	repo := NewMemoryRepository()
	added, err := repo.EnsureCatalog(context.Background(), []domain.Slot{
		{Date: "2026-02-19", Time: "09:00"},
		{Date: "2026-02-18", Time: "14:00"},
		{Date: "2026-02-18", Time: "09:00"},
	})
	require.NoError(t, err)
	require.Equal(t, 3, added)
	return repo
}

func TestMemoryRepository_EnsureCatalogIsIdempotent(t *testing.T) {
	repo := newSeededMemory(t)
	key := domain.SlotKey{Date: "2026-02-18", Time: "09:00"}
	require.NoError(t, repo.Reserve(context.Background(), key))

	added, err := repo.EnsureCatalog(context.Background(), []domain.Slot{{Date: "2026-02-18", Time: "09:00"}})
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	s, err := repo.Get(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, s.Available, "existing slot keeps its state")
}

func TestMemoryRepository_ListSortedAndFiltered(t *testing.T) {
	repo := newSeededMemory(t)
	ctx := context.Background()

	all, err := repo.List(ctx, domain.SlotFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-02-18", all[0].Date)
	assert.Equal(t, "09:00", all[0].Time.String())
	assert.Equal(t, "2026-02-19", all[2].Date)

	require.NoError(t, repo.Reserve(ctx, domain.SlotKey{Date: "2026-02-18", Time: "14:00"}))

	onDate, err := repo.List(ctx, domain.SlotFilter{Date: ptr.Ptr("2026-02-18")})
	require.NoError(t, err)
	require.Len(t, onDate, 1)
	assert.Equal(t, "09:00", onDate[0].Time.String())

	withTaken, err := repo.List(ctx, domain.SlotFilter{Date: ptr.Ptr("2026-02-18"), IncludeUnavailable: true})
	require.NoError(t, err)
	assert.Len(t, withTaken, 2)
}

func TestMemoryRepository_ReserveAndRelease(t *testing.T) {
	repo := newSeededMemory(t)
	ctx := context.Background()
	key := domain.SlotKey{Date: "2026-02-18", Time: "09:00"}

	require.NoError(t, repo.Reserve(ctx, key))
	assert.ErrorIs(t, repo.Reserve(ctx, key), ErrSlotNotAvailable)
	assert.ErrorIs(t, repo.Reserve(ctx, domain.SlotKey{Date: "2026-03-01", Time: "09:00"}), ErrSlotNotFound)

	require.NoError(t, repo.Release(ctx, key))
	// Повторное освобождение не меняет состояние
	require.NoError(t, repo.Release(ctx, key))
	require.NoError(t, repo.Release(ctx, domain.SlotKey{Date: "2026-03-01", Time: "09:00"}))

	s, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, s.Available)
}

func TestMemoryRepository_ConcurrentReserve(t *testing.T) {
	repo := newSeededMemory(t)
	key := domain.SlotKey{Date: "2026-02-18", Time: "09:00"}

	var (
		wg        sync.WaitGroup
		succeeded int32
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Reserve(context.Background(), key); err == nil {
				atomic.AddInt32(&succeeded, 1)
			} else {
				assert.ErrorIs(t, err, ErrSlotNotAvailable)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded)
}

func TestMemoryRepository_RollbackRestoresSlot(t *testing.T) {
	repo := newSeededMemory(t)
	mgr := memtx.NewManager()
	key := domain.SlotKey{Date: "2026-02-18", Time: "09:00"}

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		require.NoError(t, repo.Reserve(ctx, key))
		return errors.New("appointment insert failed")
	})
	require.Error(t, err)

	s, err := repo.Get(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, s.Available)
}

func TestMemoryRepository_CancelledContext(t *testing.T) {
	repo := newSeededMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Reserve(ctx, domain.SlotKey{Date: "2026-02-18", Time: "09:00"}), context.Canceled)
	_, err := repo.List(ctx, domain.SlotFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}
