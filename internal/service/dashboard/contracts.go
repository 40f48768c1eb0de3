package dashboard

import (
	"context"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	faqModels "github.com/m04kA/SMC-VoiceReceptionist/internal/service/faq/models"
)

// SlotRepository интерфейс каталога слотов
type SlotRepository interface {
	List(ctx context.Context, filter domain.SlotFilter) ([]domain.Slot, error)
}

// AppointmentRepository интерфейс хранилища записей
type AppointmentRepository interface {
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// FAQProvider источник частых вопросов
type FAQProvider interface {
	All() []faqModels.FAQ
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
