package reschedule_appointment

import (
	"context"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
)

// SlotRepository интерфейс каталога слотов
type SlotRepository interface {
	Reserve(ctx context.Context, key domain.SlotKey) error
	Release(ctx context.Context, key domain.SlotKey) error
}

// AppointmentRepository интерфейс хранилища записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Reschedule(ctx context.Context, id int64, key domain.SlotKey) (*domain.Appointment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// DateNormalizer интерфейс нормализации дат
type DateNormalizer interface {
	NormalizeDate(input string) (string, bool)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
