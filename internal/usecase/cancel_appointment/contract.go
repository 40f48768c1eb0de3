package cancel_appointment

import (
	"context"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
)

// SlotRepository интерфейс каталога слотов
type SlotRepository interface {
	Release(ctx context.Context, key domain.SlotKey) error
}

// AppointmentRepository интерфейс хранилища записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, reason *string) (*domain.Appointment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
