package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/service/dashboard/models"
	faqModels "github.com/m04kA/SMC-VoiceReceptionist/internal/service/faq/models"
)

// Service чтение данных для дашборда
type Service struct {
	slotRepo        SlotRepository
	appointmentRepo AppointmentRepository
	faqs            FAQProvider
	clinic          domain.ClinicInfo
	logger          Logger
}

// NewService создает новый экземпляр сервиса дашборда
func NewService(
	slotRepo SlotRepository,
	appointmentRepo AppointmentRepository,
	faqs FAQProvider,
	clinic domain.ClinicInfo,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		faqs:            faqs,
		clinic:          clinic,
		logger:          logger,
	}
}

// ClinicInfo возвращает профиль клиники
func (s *Service) ClinicInfo() domain.ClinicInfo {
	return s.clinic
}

// ListAppointments возвращает все неотменённые записи в порядке создания
func (s *Service) ListAppointments(ctx context.Context) ([]models.AppointmentResponse, error) {
	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{})
	if err != nil {
		s.logger.Error("ListAppointments: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAppointments - repository error: %v", ErrInternal, err)
	}

	result := make([]models.AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		result = append(result, models.FromDomainAppointment(a))
	}
	return result, nil
}

// ListAvailableSlots возвращает свободные слоты, опционально на одну дату
func (s *Service) ListAvailableSlots(ctx context.Context, date *string) ([]models.SlotResponse, error) {
	if date != nil {
		if _, err := time.Parse(domain.DateFormat, *date); err != nil {
			s.logger.Warn("ListAvailableSlots: invalid date %q", *date)
			return nil, ErrInvalidDate
		}
	}

	slots, err := s.slotRepo.List(ctx, domain.SlotFilter{Date: date})
	if err != nil {
		s.logger.Error("ListAvailableSlots: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAvailableSlots - repository error: %v", ErrInternal, err)
	}

	result := make([]models.SlotResponse, 0, len(slots))
	for _, slot := range slots {
		result = append(result, models.FromDomainSlot(slot))
	}
	return result, nil
}

// FAQs возвращает все частые вопросы
func (s *Service) FAQs() []faqModels.FAQ {
	return s.faqs.All()
}

// Stats возвращает сводные показатели
func (s *Service) Stats(ctx context.Context) (*models.StatsResponse, error) {
	appointments, err := s.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}

	slots, err := s.ListAvailableSlots(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &models.StatsResponse{
		TotalAppointments: len(appointments),
		AvailableSlots:    len(slots),
		TotalFAQs:         len(s.faqs.All()),
		ClinicName:        s.clinic.Name,
	}, nil
}
