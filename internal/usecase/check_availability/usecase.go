package check_availability

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/normalizer"
)

const (
	msgFoundSlots            = "We have %d available time slots."
	msgNoSlotsOnDateFallback = "I'm sorry, we don't have any available appointments on that date. Here are the next available times."
	msgNoSlotsFallback       = "I couldn't find availability for that request. Here are the next available times."
	msgNoSlots               = "I'm sorry, we don't have any available appointments on that date. Would you like to try a different date?"
)

// UseCase use case для проверки свободных слотов
type UseCase struct {
	slotRepo   SlotRepository
	normalizer DateNormalizer
	logger     Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, dateNormalizer DateNormalizer, logger Logger) *UseCase {
	return &UseCase{
		slotRepo:   slotRepo,
		normalizer: dateNormalizer,
		logger:     logger,
	}
}

// Execute возвращает свободные слоты на дату и часть дня.
// Если подходящих слотов нет, предлагает ближайшие свободные без ограничения по дате.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: date=%q, preferred_time=%q", req.Date, req.PreferredTime)

	// 1. Нормализуем дату (нераспознанная дата означает поиск по всем датам)
	filter := domain.SlotFilter{}
	date, hasDate := uc.normalizer.NormalizeDate(req.Date)
	if hasDate {
		filter.Date = &date
	}

	band, hasBand := domain.ParseTimeOfDay(req.PreferredTime)

	// 2. Получаем свободные слоты
	slots, err := uc.slotRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}
	slots = filterByBand(slots, band, hasBand)

	if len(slots) > 0 {
		uc.logger.Info("CheckAvailability: found %d slots", len(slots))
		return &Response{
			Success:        true,
			Message:        fmt.Sprintf(msgFoundSlots, len(slots)),
			AvailableSlots: toViews(slots),
			Slots:          slots,
		}, nil
	}

	// 3. Ничего не нашли: предлагаем ближайшие свободные слоты по всему каталогу
	all, err := uc.slotRepo.List(ctx, domain.SlotFilter{})
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to list fallback slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list fallback slots: %v", ErrInternal, err)
	}
	suggestions := filterByBand(all, band, hasBand)
	if len(suggestions) > domain.MaxFallbackSuggestions {
		suggestions = suggestions[:domain.MaxFallbackSuggestions]
	}

	if len(suggestions) == 0 {
		uc.logger.Warn("CheckAvailability: no availability at all")
		return &Response{
			Failure:        domain.FailureNoAvailability,
			Message:        msgNoSlots,
			AvailableSlots: []SlotView{},
		}, nil
	}

	message := msgNoSlotsFallback
	if hasDate {
		message = msgNoSlotsOnDateFallback
	}

	uc.logger.Info("CheckAvailability: no slots matched, suggesting %d alternatives", len(suggestions))
	return &Response{
		Failure:        domain.FailureNoAvailability,
		Message:        message,
		AvailableSlots: toViews(suggestions),
	}, nil
}

func filterByBand(slots []domain.Slot, band domain.TimeOfDay, hasBand bool) []domain.Slot {
	if !hasBand {
		return slots
	}
	filtered := make([]domain.Slot, 0, len(slots))
	for i := range slots {
		if slots[i].InBand(band) {
			filtered = append(filtered, slots[i])
		}
	}
	return filtered
}

func toViews(slots []domain.Slot) []SlotView {
	views := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, SlotView{
			Date:    s.Date,
			Time:    normalizer.FormatTimeForDisplay(s.Time),
			Display: normalizer.FormatSlotForDisplay(s.Date, s.Time),
		})
	}
	return views
}
