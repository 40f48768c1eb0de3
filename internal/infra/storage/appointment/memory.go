package appointment

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/memtx"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/ptr"
)

// MemoryRepository in-memory хранилище записей.
// Наружу отдаются только копии.
type MemoryRepository struct {
	mu           sync.RWMutex
	nextID       int64
	items        map[int64]*domain.Appointment
	order        []int64
	timeProvider TimeProvider
}

// NewMemoryRepository создает пустое хранилище
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:       1,
		items:        make(map[int64]*domain.Appointment),
		timeProvider: &RealTimeProvider{},
	}
}

// WithTimeProvider подменяет источник времени
func (r *MemoryRepository) WithTimeProvider(tp TimeProvider) *MemoryRepository {
	r.timeProvider = tp
	return r
}

// Create сохраняет новую подтверждённую запись
func (r *MemoryRepository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeOnSlotLocked(appt.SlotKey(), 0) {
		return nil, ErrSlotOccupied
	}

	stored := appt.Clone()
	stored.ID = r.nextID
	stored.Status = domain.StatusConfirmed
	stored.CreatedAt = r.timeProvider.Now()
	stored.UpdatedAt = nil
	stored.CancelledAt = nil
	stored.CancellationReason = nil

	r.nextID++
	r.items[stored.ID] = stored
	r.order = append(r.order, stored.ID)

	id := stored.ID
	memtx.OnRollback(ctx, func() { r.remove(id) })

	return stored.Clone(), nil
}

// GetByID возвращает запись по ID (включая отменённые)
func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	appt, ok := r.items[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return appt.Clone(), nil
}

// List возвращает записи в порядке создания
func (r *MemoryRepository) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Appointment, 0)
	for _, id := range r.order {
		appt := r.items[id]
		if !filter.IncludeCancelled && appt.IsCancelled() {
			continue
		}
		if filter.Phone != nil && appt.Phone != *filter.Phone {
			continue
		}
		result = append(result, appt.Clone())
	}
	return result, nil
}

// FindByPhone возвращает активные записи пациента
func (r *MemoryRepository) FindByPhone(ctx context.Context, phone string) ([]*domain.Appointment, error) {
	return r.List(ctx, domain.AppointmentFilter{Phone: &phone})
}

// Reschedule переносит активную запись на другой слот
func (r *MemoryRepository) Reschedule(ctx context.Context, id int64, key domain.SlotKey) (*domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.items[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	if appt.IsCancelled() {
		return nil, ErrAppointmentCancelled
	}
	if r.activeOnSlotLocked(key, id) {
		return nil, ErrSlotOccupied
	}

	prev := appt.Clone()
	appt.Date = key.Date
	appt.Time = key.Time
	appt.UpdatedAt = ptr.Ptr(r.timeProvider.Now())

	memtx.OnRollback(ctx, func() { r.restore(prev) })

	return appt.Clone(), nil
}

// Cancel переводит запись в статус cancelled.
// Для уже отменённой записи возвращает ErrAppointmentCancelled.
func (r *MemoryRepository) Cancel(ctx context.Context, id int64, reason *string) (*domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.items[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	if appt.IsCancelled() {
		return nil, ErrAppointmentCancelled
	}

	prev := appt.Clone()
	now := r.timeProvider.Now()
	appt.Status = domain.StatusCancelled
	appt.CancelledAt = &now
	appt.UpdatedAt = &now
	if reason != nil {
		appt.CancellationReason = ptr.Ptr(*reason)
	}

	memtx.OnRollback(ctx, func() { r.restore(prev) })

	return appt.Clone(), nil
}

func (r *MemoryRepository) activeOnSlotLocked(key domain.SlotKey, exceptID int64) bool {
	for _, appt := range r.items {
		if appt.ID != exceptID && appt.IsActive() && appt.SlotKey() == key {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) remove(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *MemoryRepository) restore(prev *domain.Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[prev.ID]; ok {
		r.items[prev.ID] = prev
	}
}
