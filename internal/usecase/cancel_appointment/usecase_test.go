package cancel_appointment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-VoiceReceptionist/internal/infra/storage/appointment"
	slotRepo "github.com/m04kA/SMC-VoiceReceptionist/internal/infra/storage/slot"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/logger"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/memtx"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/types"
)

// brokenSlots ломается при освобождении слота
type brokenSlots struct{}

func (brokenSlots) Release(context.Context, domain.SlotKey) error {
	return errors.New("connection lost")
}

type fixture struct {
	slots        *slotRepo.MemoryRepository
	appointments *appointmentRepo.MemoryRepository
	tx           *memtx.Manager
	uc           *UseCase
}

var annSlot = domain.SlotKey{Date: "2026-02-18", Time: types.TimeString("09:00")}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	slots := slotRepo.NewMemoryRepository()
	_, err := slots.EnsureCatalog(ctx, []domain.Slot{{Date: annSlot.Date, Time: annSlot.Time}})
	require.NoError(t, err)

	f := &fixture{
		slots:        slots,
		appointments: appointmentRepo.NewMemoryRepository(),
		tx:           memtx.NewManager(),
	}
	f.uc = NewUseCase(f.slots, f.appointments, f.tx, logger.NewNop())

	err = f.tx.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := f.slots.Reserve(txCtx, annSlot); err != nil {
			return err
		}
		_, err := f.appointments.Create(txCtx, &domain.Appointment{
			PatientName: "Ann",
			Phone:       "555-010-1111",
			Date:        annSlot.Date,
			Time:        annSlot.Time,
			Type:        domain.DefaultAppointmentType,
		})
		return err
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) available(t *testing.T) bool {
	t.Helper()
	s, err := f.slots.Get(context.Background(), annSlot)
	require.NoError(t, err)
	return s.Available
}

func TestUseCase_Execute_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{AppointmentID: "1", Reason: " feeling better "})
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.False(t, resp.AlreadyCancelled)

	assert.Equal(t, "I've cancelled your appointment for Wednesday, February 18 at 9:00 AM. Would you like to schedule a new appointment?", resp.Message)
	assert.Equal(t, &AppointmentSummary{ID: 1, Status: domain.StatusCancelled}, resp.Appointment)
	require.NotNil(t, resp.Cancelled.CancellationReason)
	assert.Equal(t, "feeling better", *resp.Cancelled.CancellationReason)
	assert.True(t, f.available(t))
}

func TestUseCase_Execute_AlreadyCancelled(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: "1"})
	require.NoError(t, err)

	// Слот занимает другой пациент
	require.NoError(t, f.slots.Reserve(context.Background(), annSlot))

	resp, err := f.uc.Execute(context.Background(), &Request{AppointmentID: "1"})
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.True(t, resp.AlreadyCancelled)
	assert.Equal(t, "Your appointment for Wednesday, February 18 at 9:00 AM was already cancelled. Would you like to schedule a new appointment?", resp.Message)
	assert.Equal(t, domain.StatusCancelled, resp.Appointment.Status)
	assert.False(t, f.available(t))
}

func TestUseCase_Execute_Failures(t *testing.T) {
	tests := []struct {
		name        string
		req         Request
		wantFailure domain.FailureKind
		wantMessage string
	}{
		{
			name:        "missing id",
			req:         Request{Reason: "no reason"},
			wantFailure: domain.FailureValidation,
			wantMessage: "I need to know which appointment you'd like to cancel.",
		},
		{
			name:        "unknown id",
			req:         Request{AppointmentID: "42"},
			wantFailure: domain.FailureNotFound,
			wantMessage: "I couldn't find that appointment. Can you verify the details?",
		},
		{
			name:        "negative id",
			req:         Request{AppointmentID: "-1"},
			wantFailure: domain.FailureNotFound,
			wantMessage: "I couldn't find that appointment. Can you verify the details?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			resp, err := f.uc.Execute(context.Background(), &tt.req)
			require.NoError(t, err)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantFailure, resp.Failure)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.False(t, f.available(t))
		})
	}
}

func TestUseCase_Execute_TruncatesReason(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{AppointmentID: "1", Reason: strings.Repeat("x", domain.MaxCancellationReasonLength+10)})
	require.NoError(t, err)
	require.NotNil(t, resp.Cancelled.CancellationReason)
	assert.Len(t, *resp.Cancelled.CancellationReason, domain.MaxCancellationReasonLength)
}

func TestUseCase_Execute_RollsBackOnReleaseError(t *testing.T) {
	f := newFixture(t)
	uc := NewUseCase(brokenSlots{}, f.appointments, f.tx, logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: "1"})
	assert.ErrorIs(t, err, ErrInternal)

	stored, err := f.appointments.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, stored.IsActive())
	assert.Nil(t, stored.CancelledAt)
}
