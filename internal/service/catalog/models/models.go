package models

import (
	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/types"
)

// DaySchedule расписание клиники на один день недели
type DaySchedule struct {
	IsOpen    bool
	OpenTime  *string // HH:MM
	CloseTime *string // HH:MM
}

// WeeklyHours расписание на неделю
type WeeklyHours struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// GenerationPolicy правило построения каталога по рабочим часам
type GenerationPolicy struct {
	Enabled             bool
	SlotDurationMinutes int      // шаг слотов
	DaysAhead           int      // сколько дней вперёд, включая сегодня
	MinNoticeMinutes    int      // сегодняшние слоты раньше now+notice не создаются
	Holidays            []string // YYYY-MM-DD
	Hours               WeeklyHours
}

// DemoAppointment демонстрационная запись, создаётся через обычное бронирование
type DemoAppointment struct {
	PatientName     string
	Phone           string
	Email           string
	Date            string
	Time            string
	AppointmentType string
	IsNewPatient    bool
}

// Seed исходные данные расписания
type Seed struct {
	Slots        []domain.Slot
	Policy       GenerationPolicy
	Appointments []DemoAppointment
}

// SeedResult итог заполнения каталога
type SeedResult struct {
	SlotsTotal          int
	SlotsAdded          int
	AppointmentsBooked  int
	AppointmentsSkipped int
}

func open(from, to string) DaySchedule {
	return DaySchedule{IsOpen: true, OpenTime: &from, CloseTime: &to}
}

// DefaultWeeklyHours часы работы демо-клиники
func DefaultWeeklyHours() WeeklyHours {
	return WeeklyHours{
		Monday:    open("08:00", "17:00"),
		Tuesday:   open("08:00", "17:00"),
		Wednesday: open("08:00", "17:00"),
		Thursday:  open("08:00", "17:00"),
		Friday:    open("08:00", "15:00"),
		Saturday:  DaySchedule{},
		Sunday:    DaySchedule{},
	}
}

// DefaultSlots демонстрационный каталог
func DefaultSlots() []domain.Slot {
	pairs := [][2]string{
		{"2026-02-18", "09:00"},
		{"2026-02-18", "10:00"},
		{"2026-02-18", "11:00"},
		{"2026-02-18", "14:00"},
		{"2026-02-18", "15:00"},
		{"2026-02-19", "09:00"},
		{"2026-02-19", "10:00"},
		{"2026-02-19", "13:00"},
		{"2026-02-20", "09:00"},
		{"2026-02-20", "14:00"},
	}
	slots := make([]domain.Slot, 0, len(pairs))
	for _, p := range pairs {
		slots = append(slots, domain.Slot{Date: p[0], Time: types.TimeString(p[1]), Available: true})
	}
	return slots
}

// DefaultAppointments демонстрационные записи, занимающие 11:00 18-го и 14:00 20-го
func DefaultAppointments() []DemoAppointment {
	return []DemoAppointment{
		{
			PatientName:     "John Doe",
			Phone:           "555-010-0101",
			Email:           "john@example.com",
			Date:            "2026-02-18",
			Time:            "11:00",
			AppointmentType: "consultation",
		},
		{
			PatientName:     "Jane Smith",
			Phone:           "555-010-0102",
			Email:           "jane@example.com",
			Date:            "2026-02-20",
			Time:            "14:00",
			AppointmentType: "adjustment",
		},
	}
}

// DefaultSeed демонстрационные данные без генерации
func DefaultSeed() Seed {
	return Seed{
		Slots: DefaultSlots(),
		Policy: GenerationPolicy{
			SlotDurationMinutes: domain.DefaultSlotDurationMinutes,
			DaysAhead:           domain.DefaultGenerationDaysAhead,
			Hours:               DefaultWeeklyHours(),
		},
		Appointments: DefaultAppointments(),
	}
}
