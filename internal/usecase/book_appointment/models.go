package book_appointment

import "github.com/m04kA/SMC-VoiceReceptionist/internal/domain"

// Request параметры вызова book_appointment
type Request struct {
	PatientName     string
	Phone           string // свободный формат, будет приведён к DDD-DDD-DDDD
	Email           string // опционально
	Date            string // свободный формат
	Time            string // свободный формат ("9am", "14:00")
	AppointmentType string // опционально, по умолчанию consultation
	IsNewPatient    bool
}

// AppointmentSummary созданная запись в виде для озвучивания
type AppointmentSummary struct {
	ID          int64
	PatientName string
	Date        string // "Wednesday, February 18"
	Time        string // "9:00 AM"
	Type        string
}

// Response результат записи на приём
type Response struct {
	Success bool
	Failure domain.FailureKind
	Message string

	Appointment *AppointmentSummary

	// Created сохранённая запись (только при успехе)
	Created *domain.Appointment
}
