package slot

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/memtx"
)

// MemoryRepository in-memory каталог слотов
type MemoryRepository struct {
	mu    sync.RWMutex
	slots map[domain.SlotKey]*domain.Slot
}

// NewMemoryRepository создает пустой каталог
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{slots: make(map[domain.SlotKey]*domain.Slot)}
}

// EnsureCatalog добавляет отсутствующие слоты как свободные, существующие не трогает.
// Возвращает количество добавленных слотов.
func (r *MemoryRepository) EnsureCatalog(ctx context.Context, slots []domain.Slot) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for _, s := range slots {
		key := s.Key()
		if _, ok := r.slots[key]; ok {
			continue
		}
		r.slots[key] = &domain.Slot{Date: s.Date, Time: s.Time, Available: true}
		added++
	}
	return added, nil
}

// List возвращает слоты, отсортированные по (date, time)
func (r *MemoryRepository) List(ctx context.Context, filter domain.SlotFilter) ([]domain.Slot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Slot, 0, len(r.slots))
	for _, s := range r.slots {
		if filter.Date != nil && s.Date != *filter.Date {
			continue
		}
		if !filter.IncludeUnavailable && !s.Available {
			continue
		}
		result = append(result, *s)
	}
	domain.SortSlots(result)
	return result, nil
}

// Get возвращает слот по ключу
func (r *MemoryRepository) Get(ctx context.Context, key domain.SlotKey) (*domain.Slot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slots[key]
	if !ok {
		return nil, ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

// Reserve атомарно переводит слот из свободного в занятый
func (r *MemoryRepository) Reserve(ctx context.Context, key domain.SlotKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[key]
	if !ok {
		return ErrSlotNotFound
	}
	if !s.Available {
		return ErrSlotNotAvailable
	}
	s.Available = false

	memtx.OnRollback(ctx, func() { r.setAvailable(key, true) })
	return nil
}

// Release освобождает слот. Повторное освобождение и неизвестный слот не являются ошибкой
func (r *MemoryRepository) Release(ctx context.Context, key domain.SlotKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[key]
	if !ok || s.Available {
		return nil
	}
	s.Available = true

	memtx.OnRollback(ctx, func() { r.setAvailable(key, false) })
	return nil
}

func (r *MemoryRepository) setAvailable(key domain.SlotKey, available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.slots[key]; ok {
		s.Available = available
	}
}
