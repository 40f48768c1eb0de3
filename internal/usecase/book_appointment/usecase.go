package book_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-VoiceReceptionist/internal/infra/storage/appointment"
	slotRepo "github.com/m04kA/SMC-VoiceReceptionist/internal/infra/storage/slot"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/normalizer"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/ptr"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/txmanager"
)

const (
	msgMissingFields   = "I need your name, phone number, and preferred date and time to book an appointment."
	msgInvalidTime     = "I couldn't understand that time. Please share the time like 9 AM, 2 PM, or 14:00."
	msgInvalidPhone    = "I need a valid phone number. Can you please provide your phone number?"
	msgSlotUnavailable = "I'm sorry, that time slot just became unavailable. Let me find other available times for you."
	msgBooked          = "Perfect! I've booked your %s for %s at %s. You'll receive a confirmation text shortly at %s."
	msgNewPatientInfo  = " Since this is your first visit, please arrive 15 minutes early to complete our new patient forms. Don't forget to bring your insurance card and a valid ID."

	genericAppointmentName = "appointment"
)

// UseCase use case для записи на приём
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

// Execute бронирует слот и создаёт запись.
// Резервирование слота и создание записи выполняются в одной транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: date=%q, time=%q, type=%q, new_patient=%t",
		req.Date, req.Time, req.AppointmentType, req.IsNewPatient)

	// 1. Валидация входных данных
	name := strings.TrimSpace(req.PatientName)
	date, dateOK := uc.normalizer.NormalizeDate(req.Date)
	if name == "" || strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.Time) == "" || !dateOK {
		uc.logger.Warn("BookAppointment: missing or unparseable fields")
		return failure(domain.FailureValidation, msgMissingFields), nil
	}

	slotTime, ok := normalizer.NormalizeTime(req.Time)
	if !ok {
		uc.logger.Warn("BookAppointment: invalid time %q", req.Time)
		return failure(domain.FailureValidation, msgInvalidTime), nil
	}

	phone, ok := normalizer.CleanPhone(req.Phone)
	if !ok {
		uc.logger.Warn("BookAppointment: invalid phone")
		return failure(domain.FailureValidation, msgInvalidPhone), nil
	}

	apptType := strings.TrimSpace(req.AppointmentType)
	storedType := apptType
	if storedType == "" {
		storedType = domain.DefaultAppointmentType
	}

	appt := &domain.Appointment{
		PatientName:  name,
		Phone:        phone,
		Date:         date,
		Time:         slotTime,
		Type:         storedType,
		IsNewPatient: req.IsNewPatient,
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		appt.Email = ptr.Ptr(email)
	}
	key := appt.SlotKey()

	var created *domain.Appointment

	// 2. Резервируем слот и создаём запись в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.slotRepo.Reserve(txCtx, key); err != nil {
			return err
		}

		result, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			return err
		}
		created = result
		return nil
	})

	if err != nil {
		if isConflict(err) {
			uc.logger.Warn("BookAppointment: slot %s not available: %v", key, err)
			return failure(domain.FailureConflict, msgSlotUnavailable), nil
		}
		uc.logger.Error("BookAppointment: failed to book slot %s: %v", key, err)
		return nil, fmt.Errorf("%w: failed to book slot %s: %v", ErrInternal, key, err)
	}

	uc.logger.Info("BookAppointment: successfully created appointment id=%d for slot %s", created.ID, key)

	// 3. Формируем подтверждение
	spokenType := apptType
	if spokenType == "" {
		spokenType = genericAppointmentName
	}
	displayDate := normalizer.FormatDateForDisplay(created.Date)
	displayTime := normalizer.FormatTimeForDisplay(created.Time)

	message := fmt.Sprintf(msgBooked, spokenType, displayDate, displayTime, normalizer.FormatPhoneForDisplay(created.Phone))
	if created.IsNewPatient {
		message += msgNewPatientInfo
	}

	return &Response{
		Success: true,
		Message: message,
		Appointment: &AppointmentSummary{
			ID:          created.ID,
			PatientName: created.PatientName,
			Date:        displayDate,
			Time:        displayTime,
			Type:        created.Type,
		},
		Created: created,
	}, nil
}

func isConflict(err error) bool {
	return errors.Is(err, slotRepo.ErrSlotNotAvailable) ||
		errors.Is(err, slotRepo.ErrSlotNotFound) ||
		errors.Is(err, appointmentRepo.ErrSlotOccupied) ||
		errors.Is(err, txmanager.ErrSerializationFailure)
}

func failure(kind domain.FailureKind, message string) *Response {
	return &Response{Failure: kind, Message: message}
}
