package cancel_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-VoiceReceptionist/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/normalizer"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/ptr"
)

const (
	msgMissingID        = "I need to know which appointment you'd like to cancel."
	msgNotFound         = "I couldn't find that appointment. Can you verify the details?"
	msgCancelled        = "I've cancelled your appointment for %s at %s. Would you like to schedule a new appointment?"
	msgAlreadyCancelled = "Your appointment for %s at %s was already cancelled. Would you like to schedule a new appointment?"
)

// UseCase use case для отмены записи
type UseCase struct {
	slotRepo        SlotRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute отменяет запись и освобождает её слот.
// Повторная отмена считается успешной и слот не трогает.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelAppointment: id=%q", req.AppointmentID)

	// 1. Валидация входных данных
	if strings.TrimSpace(req.AppointmentID) == "" {
		uc.logger.Warn("CancelAppointment: missing appointment id")
		return failure(domain.FailureValidation, msgMissingID), nil
	}

	id, err := domain.ParseAppointmentID(req.AppointmentID)
	if err != nil {
		uc.logger.Warn("CancelAppointment: invalid appointment id %q", req.AppointmentID)
		return failure(domain.FailureNotFound, msgNotFound), nil
	}

	var reason *string
	if r := strings.TrimSpace(req.Reason); r != "" {
		if runes := []rune(r); len(runes) > domain.MaxCancellationReasonLength {
			r = string(runes[:domain.MaxCancellationReasonLength])
		}
		reason = ptr.Ptr(r)
	}

	var (
		cancelled        *domain.Appointment
		alreadyCancelled bool
	)

	// 2. Отменяем запись и освобождаем слот в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		result, err := uc.appointmentRepo.Cancel(txCtx, id, reason)
		if errors.Is(err, appointmentRepo.ErrAppointmentCancelled) {
			// Слот мог уже перейти к другой записи
			stored, getErr := uc.appointmentRepo.GetByID(txCtx, id)
			if getErr != nil {
				return getErr
			}
			cancelled = stored
			alreadyCancelled = true
			return nil
		}
		if err != nil {
			return err
		}

		if err := uc.slotRepo.Release(txCtx, result.SlotKey()); err != nil {
			return err
		}
		cancelled = result
		return nil
	})

	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("CancelAppointment: appointment id=%d not found", id)
			return failure(domain.FailureNotFound, msgNotFound), nil
		}
		uc.logger.Error("CancelAppointment: failed to cancel id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
	}

	displayDate := normalizer.FormatDateForDisplay(cancelled.Date)
	displayTime := normalizer.FormatTimeForDisplay(cancelled.Time)

	message := fmt.Sprintf(msgCancelled, displayDate, displayTime)
	if alreadyCancelled {
		uc.logger.Info("CancelAppointment: appointment id=%d was already cancelled", id)
		message = fmt.Sprintf(msgAlreadyCancelled, displayDate, displayTime)
	} else {
		uc.logger.Info("CancelAppointment: appointment id=%d cancelled, slot %s released", id, cancelled.SlotKey())
	}

	return &Response{
		Success: true,
		Message: message,
		Appointment: &AppointmentSummary{
			ID:     cancelled.ID,
			Status: cancelled.Status,
		},
		AlreadyCancelled: alreadyCancelled,
		Cancelled:        cancelled,
	}, nil
}

func failure(kind domain.FailureKind, message string) *Response {
	return &Response{Failure: kind, Message: message}
}
