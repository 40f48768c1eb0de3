package domain

import (
	"sort"
	"strings"

	"github.com/m04kA/SMC-VoiceReceptionist/pkg/types"
)

// Slot represents a bookable (date, time) unit of the clinic schedule
type Slot struct {
	Date      string // YYYY-MM-DD
	Time      types.TimeString
	Available bool
}

// SlotKey identifies a slot
type SlotKey struct {
	Date string
	Time types.TimeString
}

// String returns "YYYY-MM-DD HH:MM"
func (k SlotKey) String() string {
	return k.Date + " " + k.Time.String()
}

// Key returns the slot identity
func (s *Slot) Key() SlotKey {
	return SlotKey{Date: s.Date, Time: s.Time}
}

// InBand reports whether the slot starts inside the time-of-day band
func (s *Slot) InBand(band TimeOfDay) bool {
	return band.Contains(s.Time)
}

// SlotFilter filter for listing slots
type SlotFilter struct {
	Date               *string // только на указанную дату (опционально)
	IncludeUnavailable bool    // включать занятые слоты
}

// SortSlots orders slots by (date, time)
func SortSlots(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].Time < slots[j].Time
	})
}

// TimeOfDay preferred part of the day
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

// ParseTimeOfDay returns the band for "morning", "afternoon" or "evening"
func ParseTimeOfDay(s string) (TimeOfDay, bool) {
	switch TimeOfDay(strings.ToLower(strings.TrimSpace(s))) {
	case Morning:
		return Morning, true
	case Afternoon:
		return Afternoon, true
	case Evening:
		return Evening, true
	default:
		return "", false
	}
}

// Contains reports whether t falls into the band
func (b TimeOfDay) Contains(t types.TimeString) bool {
	hour := t.Hour()
	switch b {
	case Morning:
		return hour >= MorningStartHour && hour < AfternoonStartHour
	case Afternoon:
		return hour >= AfternoonStartHour && hour < EveningStartHour
	case Evening:
		return hour >= EveningStartHour
	default:
		return true
	}
}
