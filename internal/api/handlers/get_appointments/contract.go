package get_appointments

import (
	"context"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/service/dashboard/models"
)

type DashboardService interface {
	ListAppointments(ctx context.Context) ([]models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
