package get_available_slots

import (
	"context"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/service/dashboard/models"
)

type DashboardService interface {
	ListAvailableSlots(ctx context.Context, date *string) ([]models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
