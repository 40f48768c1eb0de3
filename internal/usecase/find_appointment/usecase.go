package find_appointment

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/normalizer"
)

const (
	msgPhoneRequired = "I need your phone number to look up your appointment."
	msgInvalidPhone  = "I need a valid 10-digit phone number to look up your appointment."
	msgNotFound      = "I couldn't find any appointments under %s. Can you verify your phone number?"
	msgFoundOne      = "I found your appointment: %s on %s at %s."
	msgFoundMany     = "I found %d appointments for you."
)

// UseCase use case для поиска записей по телефону
type UseCase struct {
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(appointmentRepo AppointmentRepository, logger Logger) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// Execute ищет активные записи пациента по номеру телефона
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FindAppointment: patient_name_given=%t", strings.TrimSpace(req.PatientName) != "")

	// 1. Валидация телефона
	if strings.TrimSpace(req.Phone) == "" {
		uc.logger.Warn("FindAppointment: phone is required")
		return &Response{Failure: domain.FailureValidation, Message: msgPhoneRequired}, nil
	}

	phone, ok := normalizer.CleanPhone(req.Phone)
	if !ok {
		uc.logger.Warn("FindAppointment: invalid phone")
		return &Response{Failure: domain.FailureValidation, Message: msgInvalidPhone}, nil
	}

	// 2. Ищем записи
	records, err := uc.appointmentRepo.FindByPhone(ctx, phone)
	if err != nil {
		uc.logger.Error("FindAppointment: failed to find appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to find appointments: %v", ErrInternal, err)
	}

	views := make([]AppointmentView, 0, len(records))
	for _, appt := range records {
		views = append(views, AppointmentView{
			ID:      appt.ID,
			Date:    normalizer.FormatDateForDisplay(appt.Date),
			Time:    normalizer.FormatTimeForDisplay(appt.Time),
			Type:    appt.Type,
			Display: normalizer.FormatSlotForDisplay(appt.Date, appt.Time),
		})
	}

	uc.logger.Info("FindAppointment: found %d appointments", len(records))

	switch len(records) {
	case 0:
		return &Response{
			Failure:      domain.FailureNotFound,
			Message:      fmt.Sprintf(msgNotFound, phone),
			Appointments: views,
			Records:      records,
		}, nil
	case 1:
		return &Response{
			Success:      true,
			Message:      fmt.Sprintf(msgFoundOne, views[0].Type, views[0].Date, views[0].Time),
			Appointments: views,
			Records:      records,
		}, nil
	default:
		return &Response{
			Success:      true,
			Message:      fmt.Sprintf(msgFoundMany, len(records)),
			Appointments: views,
			Records:      records,
		}, nil
	}
}
