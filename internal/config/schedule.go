package config

import (
	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	catalogModels "github.com/m04kA/SMC-VoiceReceptionist/internal/service/catalog/models"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/types"
)

var weekdays = map[string]struct{}{
	"monday":    {},
	"tuesday":   {},
	"wednesday": {},
	"thursday":  {},
	"friday":    {},
	"saturday":  {},
	"sunday":    {},
}

// CatalogSeed исходные данные каталога.
// Без seed_demo_data демонстрационные записи не создаются.
func (c *Config) CatalogSeed() catalogModels.Seed {
	seed := catalogModels.Seed{
		Slots:  make([]domain.Slot, 0, len(c.Schedule.Slots)),
		Policy: c.Schedule.Policy.toModel(),
	}

	for _, s := range c.Schedule.Slots {
		seed.Slots = append(seed.Slots, domain.Slot{Date: s.Date, Time: types.TimeString(s.Time), Available: true})
	}

	if c.Storage.SeedDemoData {
		for _, a := range c.Schedule.Appointments {
			seed.Appointments = append(seed.Appointments, catalogModels.DemoAppointment{
				PatientName:     a.PatientName,
				Phone:           a.Phone,
				Email:           a.Email,
				Date:            a.Date,
				Time:            a.Time,
				AppointmentType: a.AppointmentType,
				IsNewPatient:    a.IsNewPatient,
			})
		}
	}

	return seed
}

func (p PolicyConfig) toModel() catalogModels.GenerationPolicy {
	return catalogModels.GenerationPolicy{
		Enabled:             p.Enabled,
		SlotDurationMinutes: p.SlotDurationMinutes,
		DaysAhead:           p.DaysAhead,
		MinNoticeMinutes:    p.MinNoticeMinutes,
		Holidays:            p.Holidays,
		Hours: catalogModels.WeeklyHours{
			Monday:    p.day("monday"),
			Tuesday:   p.day("tuesday"),
			Wednesday: p.day("wednesday"),
			Thursday:  p.day("thursday"),
			Friday:    p.day("friday"),
			Saturday:  p.day("saturday"),
			Sunday:    p.day("sunday"),
		},
	}
}

func (p PolicyConfig) day(name string) catalogModels.DaySchedule {
	d, ok := p.Hours[name]
	if !ok || d.Open == "" || d.Close == "" {
		return catalogModels.DaySchedule{}
	}
	open, closeAt := d.Open, d.Close
	return catalogModels.DaySchedule{IsOpen: true, OpenTime: &open, CloseTime: &closeAt}
}
