package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/types"
)

const (
	minParsedYear = 1900
	maxParsedYear = 2200
)

var (
	isoDateRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	usDateRe     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	digitsOnlyRe = regexp.MustCompile(`^\d+$`)
	nonDigitRe   = regexp.MustCompile(`\D`)
	spacesRe     = regexp.MustCompile(`\s+`)
	time24Re     = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)
	time12Re     = regexp.MustCompile(`^(\d{1,2})(?::([0-5]\d))?\s*(am|pm)$`)
)

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Normalizer приводит даты из голосовых транскриптов к YYYY-MM-DD.
// "today" и "tomorrow" считаются в часовом поясе клиники.
type Normalizer struct {
	loc          *time.Location
	timeProvider TimeProvider
}

// New создает нормализатор. nil loc означает UTC, nil timeProvider - реальное время
func New(loc *time.Location, timeProvider TimeProvider) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Normalizer{loc: loc, timeProvider: timeProvider}
}

// NormalizeDate возвращает дату в формате YYYY-MM-DD или false, если дату понять нельзя
func (n *Normalizer) NormalizeDate(input string) (string, bool) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return "", false
	}

	today := n.timeProvider.Now().In(n.loc)
	switch strings.ToLower(raw) {
	case "today":
		return today.Format(domain.DateFormat), true
	case "tomorrow":
		return today.AddDate(0, 0, 1).Format(domain.DateFormat), true
	}

	if isoDateRe.MatchString(raw) {
		// time.Parse проверяет число дней в месяце
		parsed, err := time.ParseInLocation(domain.DateFormat, raw, n.loc)
		if err != nil {
			return "", false
		}
		return parsed.Format(domain.DateFormat), true
	}

	if m := usDateRe.FindStringSubmatch(raw); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return calendarDate(year, month, day, n.loc)
	}

	// Голые числа ("12345") не считаем датой
	if digitsOnlyRe.MatchString(raw) {
		return "", false
	}

	parsed, err := dateparse.ParseIn(raw, n.loc)
	if err != nil {
		return "", false
	}
	parsed = parsed.In(n.loc)
	if parsed.Year() < minParsedYear || parsed.Year() > maxParsedYear {
		return "", false
	}
	return parsed.Format(domain.DateFormat), true
}

func calendarDate(year, month, day int, loc *time.Location) (string, bool) {
	if month < 1 || month > 12 || day < 1 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	// time.Date нормализует 2/30 в 3/2, такие даты отбрасываем
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return t.Format(domain.DateFormat), true
}

// NormalizeTime возвращает время в формате HH:MM или false.
// Принимает 24-часовой формат "14:00" и 12-часовой "9am", "9:30 PM", "9 a.m.".
func NormalizeTime(input string) (types.TimeString, bool) {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.ReplaceAll(s, ".", "")
	s = spacesRe.ReplaceAllString(s, " ")
	if s == "" {
		return "", false
	}

	if m := time24Re.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return clock(hour, minute), true
	}

	if m := time12Re.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 {
			return "", false
		}
		switch {
		case m[3] == "pm" && hour != 12:
			hour += 12
		case m[3] == "am" && hour == 12:
			hour = 0
		}
		return clock(hour, minute), true
	}

	return "", false
}

func clock(hour, minute int) types.TimeString {
	return types.TimeString(fmt.Sprintf("%02d:%02d", hour, minute))
}

// CleanPhone возвращает телефон в формате DDD-DDD-DDDD или false.
// Допускается 10 цифр или 11 цифр с кодом страны 1.
func CleanPhone(input string) (string, bool) {
	digits := nonDigitRe.ReplaceAllString(input, "")
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return "", false
	}
	return digits[0:3] + "-" + digits[3:6] + "-" + digits[6:], true
}

// FormatPhoneForDisplay форматирует телефон как (DDD) DDD-DDDD
func FormatPhoneForDisplay(phone string) string {
	digits := nonDigitRe.ReplaceAllString(phone, "")
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return phone
	}
	return "(" + digits[0:3] + ") " + digits[3:6] + "-" + digits[6:]
}

// FormatDateForDisplay форматирует YYYY-MM-DD как "Wednesday, February 18"
func FormatDateForDisplay(date string) string {
	t, err := time.Parse(domain.DateFormat, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2")
}

// FormatTimeForDisplay форматирует HH:MM как "9:00 AM"
func FormatTimeForDisplay(t types.TimeString) string {
	minutes, err := t.Minutes()
	if err != nil {
		return t.String()
	}
	hour, minute := minutes/60, minutes%60

	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	switch {
	case hour > 12:
		hour -= 12
	case hour == 0:
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, period)
}

// FormatSlotForDisplay форматирует слот как "Wednesday, February 18 at 9:00 AM"
func FormatSlotForDisplay(date string, t types.TimeString) string {
	return FormatDateForDisplay(date) + " at " + FormatTimeForDisplay(t)
}
