package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/service/catalog/models"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/book_appointment"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/types"
)

// Service сервис построения и заполнения каталога слотов
type Service struct {
	slotRepo     SlotRepository
	booker       AppointmentBooker
	loc          *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса каталога.
// nil loc означает UTC, nil timeProvider - реальное время
func NewService(
	slotRepo SlotRepository,
	booker AppointmentBooker,
	loc *time.Location,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Service{
		slotRepo:     slotRepo,
		booker:       booker,
		loc:          loc,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Build собирает каталог из явных слотов и правила генерации.
// При совпадении ключей побеждает явный слот. Результат отсортирован по (date, time).
func (s *Service) Build(seed models.Seed) ([]domain.Slot, error) {
	seen := make(map[domain.SlotKey]bool)
	result := make([]domain.Slot, 0, len(seed.Slots))

	// 1. Явные слоты
	for _, slot := range seed.Slots {
		if _, err := time.Parse(domain.DateFormat, slot.Date); err != nil {
			return nil, fmt.Errorf("%w: date %q", ErrInvalidSlot, slot.Date)
		}
		slotTime, err := types.NewTimeStringFromString(slot.Time.String())
		if err != nil {
			return nil, fmt.Errorf("%w: time %q", ErrInvalidSlot, slot.Time)
		}
		normalized := domain.Slot{Date: slot.Date, Time: slotTime, Available: true}
		if seen[normalized.Key()] {
			continue
		}
		seen[normalized.Key()] = true
		result = append(result, normalized)
	}

	// 2. Слоты по рабочим часам
	if seed.Policy.Enabled {
		generated, err := s.generate(seed.Policy)
		if err != nil {
			return nil, err
		}
		for _, slot := range generated {
			key := slot.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			result = append(result, slot)
		}
	}

	domain.SortSlots(result)
	return result, nil
}

func (s *Service) generate(policy models.GenerationPolicy) ([]domain.Slot, error) {
	if policy.SlotDurationMinutes <= 0 || policy.DaysAhead <= 0 || policy.MinNoticeMinutes < 0 {
		return nil, fmt.Errorf("%w: duration=%d days_ahead=%d min_notice=%d",
			ErrInvalidPolicy, policy.SlotDurationMinutes, policy.DaysAhead, policy.MinNoticeMinutes)
	}

	holidays := make(map[string]bool, len(policy.Holidays))
	for _, h := range policy.Holidays {
		holidays[h] = true
	}

	now := s.timeProvider.Now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	slots := make([]domain.Slot, 0)
	for i := 0; i < policy.DaysAhead; i++ {
		day := today.AddDate(0, 0, i)
		date := day.Format(domain.DateFormat)
		if holidays[date] {
			continue
		}

		times, err := generateTimeSlots(scheduleForDay(policy.Hours, day), policy.SlotDurationMinutes, day, now, policy.MinNoticeMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: hours for %s: %v", ErrInvalidPolicy, day.Weekday(), err)
		}
		for _, t := range times {
			slots = append(slots, domain.Slot{Date: date, Time: t, Available: true})
		}
	}
	return slots, nil
}

// Seed добавляет недостающие слоты и бронирует демо-записи обычным бронированием.
// Уже занятый слот демо-записи (повторный запуск) только логируется.
func (s *Service) Seed(ctx context.Context, seed models.Seed) (*models.SeedResult, error) {
	slots, err := s.Build(seed)
	if err != nil {
		s.logger.Error("Seed: failed to build catalog: %v", err)
		return nil, err
	}

	added, err := s.slotRepo.EnsureCatalog(ctx, slots)
	if err != nil {
		s.logger.Error("Seed: failed to store catalog: %v", err)
		return nil, fmt.Errorf("%w: failed to store catalog: %v", ErrInternal, err)
	}
	s.logger.Info("Seed: catalog has %d slots, %d added", len(slots), added)

	result := &models.SeedResult{SlotsTotal: len(slots), SlotsAdded: added}

	for _, demo := range seed.Appointments {
		resp, err := s.booker.Execute(ctx, &book_appointment.Request{
			PatientName:     demo.PatientName,
			Phone:           demo.Phone,
			Email:           demo.Email,
			Date:            demo.Date,
			Time:            demo.Time,
			AppointmentType: demo.AppointmentType,
			IsNewPatient:    demo.IsNewPatient,
		})
		if err != nil {
			s.logger.Error("Seed: failed to book demo appointment for %s: %v", demo.PatientName, err)
			return nil, fmt.Errorf("%w: failed to book demo appointment: %v", ErrInternal, err)
		}
		if !resp.Success {
			s.logger.Warn("Seed: demo appointment for %s on %s %s skipped: %s", demo.PatientName, demo.Date, demo.Time, resp.Message)
			result.AppointmentsSkipped++
			continue
		}
		result.AppointmentsBooked++
	}

	s.logger.Info("Seed: demo appointments booked=%d skipped=%d", result.AppointmentsBooked, result.AppointmentsSkipped)
	return result, nil
}
