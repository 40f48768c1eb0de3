package reschedule_appointment

import "github.com/m04kA/SMC-VoiceReceptionist/internal/domain"

// Request параметры вызова reschedule_appointment
type Request struct {
	AppointmentID string
	NewDate       string // свободный формат
	NewTime       string // свободный формат
}

// AppointmentSummary перенесённая запись в виде для озвучивания
type AppointmentSummary struct {
	ID   int64
	Date string // "Thursday, February 19"
	Time string // "1:00 PM"
}

// Response результат переноса записи
type Response struct {
	Success bool
	Failure domain.FailureKind
	Message string

	Appointment *AppointmentSummary

	// Updated запись после переноса (только при успехе)
	Updated *domain.Appointment
}
