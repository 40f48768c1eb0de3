package catalog

import (
	"time"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/service/catalog/models"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/types"
)

// generateTimeSlots генерирует время начала слотов на день.
// Слоты идут от открытия с шагом slotDuration и не выходят за закрытие.
// Для сегодняшнего дня отбрасываются слоты раньше now+minNoticeMinutes.
func generateTimeSlots(
	workingHours models.DaySchedule,
	slotDuration int,
	day time.Time,
	now time.Time,
	minNoticeMinutes int,
) ([]types.TimeString, error) {
	// Прошедшие дни не генерируем
	if isDateInPast(day, now) {
		return []types.TimeString{}, nil
	}

	// Клиника закрыта в этот день
	if !workingHours.IsOpen || workingHours.OpenTime == nil || workingHours.CloseTime == nil {
		return []types.TimeString{}, nil
	}

	openTime, err := types.NewTimeStringFromString(*workingHours.OpenTime)
	if err != nil {
		return nil, err
	}

	closeTime, err := types.NewTimeStringFromString(*workingHours.CloseTime)
	if err != nil {
		return nil, err
	}

	// Шаг 1: все слоты от открытия до закрытия
	allSlots := make([]types.TimeString, 0)
	currentSlot := openTime

	for currentSlot.IsBefore(closeTime) {
		slotEnd, err := currentSlot.AddMinutes(slotDuration)
		if err != nil {
			// Слот переходит через полночь
			break
		}
		if slotEnd.IsAfter(closeTime) {
			break
		}

		allSlots = append(allSlots, currentSlot)
		currentSlot = slotEnd
	}

	// Шаг 2: не сегодня - отдаём все
	if !isSameDay(day, now) {
		return allSlots, nil
	}

	// Шаг 3: сегодня - только слоты не раньше now+notice
	minAllowedTime, err := types.NewTimeString(now).AddMinutes(minNoticeMinutes)
	if err != nil {
		// Уведомление выходит за конец дня
		return []types.TimeString{}, nil
	}

	result := make([]types.TimeString, 0, len(allSlots))
	for _, slot := range allSlots {
		if !slot.IsBefore(minAllowedTime) {
			result = append(result, slot)
		}
	}

	return result, nil
}

// scheduleForDay возвращает расписание на день недели
func scheduleForDay(hours models.WeeklyHours, day time.Time) models.DaySchedule {
	switch day.Weekday() {
	case time.Monday:
		return hours.Monday
	case time.Tuesday:
		return hours.Tuesday
	case time.Wednesday:
		return hours.Wednesday
	case time.Thursday:
		return hours.Thursday
	case time.Friday:
		return hours.Friday
	case time.Saturday:
		return hours.Saturday
	case time.Sunday:
		return hours.Sunday
	default:
		return models.DaySchedule{}
	}
}

func isSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
