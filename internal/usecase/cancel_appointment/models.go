package cancel_appointment

import "github.com/m04kA/SMC-VoiceReceptionist/internal/domain"

// Request параметры вызова cancel_appointment
type Request struct {
	AppointmentID string
	Reason        string // необязательно
}

// AppointmentSummary отменённая запись
type AppointmentSummary struct {
	ID     int64
	Status domain.AppointmentStatus
}

// Response результат отмены записи
type Response struct {
	Success bool
	Failure domain.FailureKind
	Message string

	Appointment *AppointmentSummary

	// AlreadyCancelled запись была отменена ранее, слот не освобождался
	AlreadyCancelled bool

	Cancelled *domain.Appointment
}
