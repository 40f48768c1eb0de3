package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/memtx"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/ptr"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/types"
)

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

var testNow = time.Date(2026, 2, 17, 10, 0, 0, 0, time.UTC)

func newMemory() *MemoryRepository {
	return NewMemoryRepository().WithTimeProvider(fixedTime{now: testNow})
}

func newAppointment(name, phone, date, tm string) *domain.Appointment {
	return &domain.Appointment{
		PatientName: name,
		Phone:       phone,
		Date:        date,
		Time:        types.TimeString(tm),
		Type:        domain.DefaultAppointmentType,
	}
}

func TestMemoryRepository_Create(t *testing.T) {
	repo := newMemory()
	ctx := context.Background()

	first, err := repo.Create(ctx, newAppointment("Ann", "555-010-1111", "2026-02-18", "09:00"))
	require.NoError(t, err)
	second, err := repo.Create(ctx, newAppointment("Bob", "555-010-2222", "2026-02-18", "10:00"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, domain.StatusConfirmed, first.Status)
	assert.Equal(t, testNow, first.CreatedAt)

	_, err = repo.Create(ctx, newAppointment("Eve", "555-010-3333", "2026-02-18", "09:00"))
	assert.ErrorIs(t, err, ErrSlotOccupied)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := newMemory()
	ctx := context.Background()

	created, err := repo.Create(ctx, newAppointment("Ann", "555-010-1111", "2026-02-18", "09:00"))
	require.NoError(t, err)
	created.PatientName = "Mallory"

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", stored.PatientName)
}

func TestMemoryRepository_FindByPhoneSkipsCancelled(t *testing.T) {
	repo := newMemory()
	ctx := context.Background()

	a, err := repo.Create(ctx, newAppointment("Ann", "555-010-1111", "2026-02-18", "09:00"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newAppointment("Ann", "555-010-1111", "2026-02-19", "09:00"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newAppointment("Bob", "555-010-2222", "2026-02-19", "10:00"))
	require.NoError(t, err)

	_, err = repo.Cancel(ctx, a.ID, ptr.Ptr("feeling better"))
	require.NoError(t, err)

	found, err := repo.FindByPhone(ctx, "555-010-1111")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "2026-02-19", found[0].Date)

	all, err := repo.List(ctx, domain.AppointmentFilter{IncludeCancelled: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryRepository_Reschedule(t *testing.T) {
	repo := newMemory()
	ctx := context.Background()

	a, err := repo.Create(ctx, newAppointment("Ann", "555-010-1111", "2026-02-18", "09:00"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newAppointment("Bob", "555-010-2222", "2026-02-18", "10:00"))
	require.NoError(t, err)

	moved, err := repo.Reschedule(ctx, a.ID, domain.SlotKey{Date: "2026-02-19", Time: "13:00"})
	require.NoError(t, err)
	assert.Equal(t, "2026-02-19", moved.Date)
	require.NotNil(t, moved.UpdatedAt)

	_, err = repo.Reschedule(ctx, a.ID, domain.SlotKey{Date: "2026-02-18", Time: "10:00"})
	assert.ErrorIs(t, err, ErrSlotOccupied)

	_, err = repo.Reschedule(ctx, 99, domain.SlotKey{Date: "2026-02-19", Time: "09:00"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestMemoryRepository_Cancel(t *testing.T) {
	repo := newMemory()
	ctx := context.Background()

	a, err := repo.Create(ctx, newAppointment("Ann", "555-010-1111", "2026-02-18", "09:00"))
	require.NoError(t, err)

	cancelled, err := repo.Cancel(ctx, a.ID, ptr.Ptr("schedule conflict"))
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled())
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, "schedule conflict", *cancelled.CancellationReason)

	_, err = repo.Cancel(ctx, a.ID, nil)
	assert.ErrorIs(t, err, ErrAppointmentCancelled)

	_, err = repo.Reschedule(ctx, a.ID, domain.SlotKey{Date: "2026-02-19", Time: "09:00"})
	assert.ErrorIs(t, err, ErrAppointmentCancelled)

	_, err = repo.Cancel(ctx, 42, nil)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestMemoryRepository_Rollback(t *testing.T) {
	repo := newMemory()
	mgr := memtx.NewManager()
	ctx := context.Background()

	a, err := repo.Create(ctx, newAppointment("Ann", "555-010-1111", "2026-02-18", "09:00"))
	require.NoError(t, err)

	err = mgr.Do(ctx, func(txCtx context.Context) error {
		_, err := repo.Create(txCtx, newAppointment("Bob", "555-010-2222", "2026-02-18", "10:00"))
		require.NoError(t, err)
		_, err = repo.Reschedule(txCtx, a.ID, domain.SlotKey{Date: "2026-02-19", Time: "09:00"})
		require.NoError(t, err)
		_, err = repo.Cancel(txCtx, a.ID, nil)
		require.NoError(t, err)
		return errors.New("release failed")
	})
	require.Error(t, err)

	all, err := repo.List(ctx, domain.AppointmentFilter{IncludeCancelled: true})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2026-02-18", all[0].Date)
	assert.Equal(t, "09:00", all[0].Time.String())
	assert.True(t, all[0].IsActive())
}
