package calls

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/integrations/staffalert"
)

// CallLogRepository интерфейс журнала звонков
type CallLogRepository interface {
	Append(ctx context.Context, entry domain.CallLogEntry) error
	Recent(ctx context.Context, limit int) ([]domain.CallLogEntry, int, error)
	Clear(ctx context.Context) error
}

// StaffNotifier интерфейс оповещения персонала
type StaffNotifier interface {
	Notify(ctx context.Context, alert staffalert.Alert) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
