package calllog

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
)

// MemoryRepository журнал звонков в памяти процесса
type MemoryRepository struct {
	mu         sync.RWMutex
	entries    []domain.CallLogEntry
	total      int
	maxEntries int
}

// NewMemoryRepository создает журнал, хранящий не более maxEntries последних записей
func NewMemoryRepository(maxEntries int) *MemoryRepository {
	if maxEntries <= 0 {
		maxEntries = domain.DefaultCallLogMaxEntries
	}
	return &MemoryRepository{maxEntries: maxEntries}
}

// Append добавляет запись
func (r *MemoryRepository) Append(ctx context.Context, entry domain.CallLogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	if len(r.entries) > r.maxEntries {
		r.entries = r.entries[len(r.entries)-r.maxEntries:]
	}
	r.total++
	return nil
}

// Recent возвращает до limit последних записей (новые первыми) и общее число записей
func (r *MemoryRepository) Recent(ctx context.Context, limit int) ([]domain.CallLogEntry, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}
	result := make([]domain.CallLogEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.entries[i])
	}
	return result, r.total, nil
}

// Clear удаляет все записи
func (r *MemoryRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.total = 0
	return nil
}
