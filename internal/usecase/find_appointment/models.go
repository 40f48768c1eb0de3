package find_appointment

import "github.com/m04kA/SMC-VoiceReceptionist/internal/domain"

// Request параметры вызова find_appointment
type Request struct {
	Phone       string
	PatientName string // опционально, только для журнала
}

// AppointmentView запись в виде для озвучивания
type AppointmentView struct {
	ID      int64
	Date    string // "Wednesday, February 18"
	Time    string // "9:00 AM"
	Type    string
	Display string // "Wednesday, February 18 at 9:00 AM"
}

// Response результат поиска записей
type Response struct {
	Success bool
	Failure domain.FailureKind
	Message string

	Appointments []AppointmentView

	// Records найденные записи как есть
	Records []*domain.Appointment
}
