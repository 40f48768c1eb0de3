package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-VoiceReceptionist/internal/infra/storage/appointment"
	slotRepo "github.com/m04kA/SMC-VoiceReceptionist/internal/infra/storage/slot"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/normalizer"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/txmanager"
)

const (
	msgMissingFields    = "I need the appointment details and new date/time to reschedule."
	msgInvalidTime      = "I couldn't understand that new time. Please share it like 9 AM, 2 PM, or 14:00."
	msgSlotUnavailable  = "I'm sorry, that new time slot is not available. Would you like me to suggest other available times?"
	msgNotFound         = "I couldn't find that appointment. Can you verify the details?"
	msgAlreadyCancelled = "That appointment has already been cancelled. Would you like me to book a new appointment instead?"
	msgRescheduled      = "Perfect! I've rescheduled your appointment to %s at %s. You'll receive a confirmation shortly."
)

// UseCase use case для переноса записи
type UseCase struct {
	slotRepo        SlotRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	normalizer      DateNormalizer
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	dateNormalizer DateNormalizer,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		normalizer:      dateNormalizer,
		logger:          logger,
	}
}

// Execute переносит активную запись на новый слот.
// Новый слот резервируется до освобождения старого, всё в одной транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: id=%q, new_date=%q, new_time=%q", req.AppointmentID, req.NewDate, req.NewTime)

	// 1. Валидация входных данных
	newDate, dateOK := uc.normalizer.NormalizeDate(req.NewDate)
	if strings.TrimSpace(req.AppointmentID) == "" || strings.TrimSpace(req.NewTime) == "" || !dateOK {
		uc.logger.Warn("RescheduleAppointment: missing or unparseable fields")
		return failure(domain.FailureValidation, msgMissingFields), nil
	}

	newTime, ok := normalizer.NormalizeTime(req.NewTime)
	if !ok {
		uc.logger.Warn("RescheduleAppointment: invalid time %q", req.NewTime)
		return failure(domain.FailureValidation, msgInvalidTime), nil
	}

	id, err := domain.ParseAppointmentID(req.AppointmentID)
	if err != nil {
		uc.logger.Warn("RescheduleAppointment: invalid appointment id %q", req.AppointmentID)
		return failure(domain.FailureNotFound, msgNotFound), nil
	}

	newKey := domain.SlotKey{Date: newDate, Time: newTime}
	var updated *domain.Appointment

	// 2. Переносим запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if current.IsCancelled() {
			return appointmentRepo.ErrAppointmentCancelled
		}

		// Перенос на тот же слот ничего не меняет
		if current.SlotKey() == newKey {
			updated = current
			return nil
		}

		if err := uc.slotRepo.Reserve(txCtx, newKey); err != nil {
			return err
		}
		if err := uc.slotRepo.Release(txCtx, current.SlotKey()); err != nil {
			return err
		}

		result, err := uc.appointmentRepo.Reschedule(txCtx, id, newKey)
		if err != nil {
			return err
		}
		updated = result
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotNotAvailable),
			errors.Is(err, slotRepo.ErrSlotNotFound),
			errors.Is(err, appointmentRepo.ErrSlotOccupied),
			errors.Is(err, txmanager.ErrSerializationFailure):
			uc.logger.Warn("RescheduleAppointment: slot %s not available for id=%d: %v", newKey, id, err)
			return failure(domain.FailureConflict, msgSlotUnavailable), nil

		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", id)
			return failure(domain.FailureNotFound, msgNotFound), nil

		case errors.Is(err, appointmentRepo.ErrAppointmentCancelled):
			uc.logger.Warn("RescheduleAppointment: appointment id=%d is cancelled", id)
			return failure(domain.FailureNotFound, msgAlreadyCancelled), nil

		default:
			uc.logger.Error("RescheduleAppointment: failed to reschedule id=%d to %s: %v", id, newKey, err)
			return nil, fmt.Errorf("%w: failed to reschedule appointment: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("RescheduleAppointment: appointment id=%d moved to %s", updated.ID, newKey)

	displayDate := normalizer.FormatDateForDisplay(updated.Date)
	displayTime := normalizer.FormatTimeForDisplay(updated.Time)

	return &Response{
		Success: true,
		Message: fmt.Sprintf(msgRescheduled, displayDate, displayTime),
		Appointment: &AppointmentSummary{
			ID:   updated.ID,
			Date: displayDate,
			Time: displayTime,
		},
		Updated: updated,
	}, nil
}

func failure(kind domain.FailureKind, message string) *Response {
	return &Response{Failure: kind, Message: message}
}
