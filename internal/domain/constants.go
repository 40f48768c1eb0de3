package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Time-of-day bands (start hour, inclusive)
const (
	MorningStartHour   = 8
	AfternoonStartHour = 12
	EveningStartHour   = 17
)

// Scheduling defaults
const (
	DefaultAppointmentType      = "consultation"
	MaxFallbackSuggestions      = 5
	DefaultSlotDurationMinutes  = 60
	DefaultGenerationDaysAhead  = 14
	MaxCancellationReasonLength = 500
	DefaultRecentCallLogsLimit  = 50
	DefaultCallLogMaxEntries    = 1000
)
