package check_availability

import (
	"context"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
)

// SlotRepository интерфейс каталога слотов
type SlotRepository interface {
	List(ctx context.Context, filter domain.SlotFilter) ([]domain.Slot, error)
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
