package calls

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/integrations/staffalert"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/service/calls/models"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/ptr"
)

const (
	msgTransfer    = "I'm transferring you to our staff now. Please hold."
	actionTransfer = "transfer"
)

// Service журнал звонков и перевод на персонал
type Service struct {
	repo         CallLogRepository
	notifier     StaffNotifier
	clinic       domain.ClinicInfo
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса. nil timeProvider означает реальное время
func NewService(
	repo CallLogRepository,
	notifier StaffNotifier,
	clinic domain.ClinicInfo,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Service{
		repo:         repo,
		notifier:     notifier,
		clinic:       clinic,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// LogFunctionCall записывает вызов функции с параметрами и результатом
func (s *Service) LogFunctionCall(ctx context.Context, call models.FunctionCall) error {
	result, err := json.Marshal(call.Result)
	if err != nil {
		s.logger.Error("LogFunctionCall: failed to marshal result of %s: %v", call.Function, err)
		return fmt.Errorf("%w: failed to marshal result: %v", ErrInternal, err)
	}

	entry := s.newEntry(domain.CallLogFunctionCall, call.CallID)
	entry.Function = call.Function
	entry.Result = result
	entry.Success = ptr.Ptr(call.Success)
	if json.Valid(call.Params) {
		entry.Params = call.Params
	}

	return s.append(ctx, entry)
}

// LogCallEnded записывает отчёт о завершении звонка
func (s *Service) LogCallEnded(ctx context.Context, report models.CallEnded) error {
	s.logger.Info("LogCallEnded: call_id=%s, end_reason=%q", report.CallID, report.EndReason)

	entry := s.newEntry(domain.CallLogCallEnded, report.CallID)
	entry.Duration = report.Duration
	entry.EndReason = report.EndReason
	entry.Summary = report.Summary

	return s.append(ctx, entry)
}

// Escalate переводит звонок на персонал.
// Ошибки журнала и оповещения логируются, но не мешают переводу.
func (s *Service) Escalate(ctx context.Context, req models.EscalationRequest) *models.EscalationResponse {
	s.logger.Info("Escalate: call_id=%s, reason=%q", req.CallID, req.Reason)

	entry := s.newEntry(domain.CallLogEscalation, req.CallID)
	entry.Reason = req.Reason
	entry.Message = req.Message
	entry.CallerPhone = req.CallerPhone

	if err := s.append(ctx, entry); err != nil {
		s.logger.Warn("Escalate: failed to log escalation for call_id=%s: %v", req.CallID, err)
	}

	if s.notifier != nil {
		err := s.notifier.Notify(ctx, staffalert.Alert{
			CallID:      req.CallID,
			CallerPhone: req.CallerPhone,
			Reason:      req.Reason,
			Message:     req.Message,
			Clinic:      s.clinic.Name,
			StaffPhone:  s.clinic.StaffPhone,
			StaffEmail:  s.clinic.StaffEmail,
			Timestamp:   entry.Timestamp,
		})
		if err != nil {
			s.logger.Error("Escalate: failed to notify staff for call_id=%s: %v", req.CallID, err)
		}
	}

	return &models.EscalationResponse{
		Success:        true,
		Message:        msgTransfer,
		Action:         actionTransfer,
		TransferNumber: s.clinic.Phone,
	}
}

// Recent возвращает последние записи журнала, новые первыми
func (s *Service) Recent(ctx context.Context, limit int) (*models.LogsPage, error) {
	if limit <= 0 {
		limit = domain.DefaultRecentCallLogsLimit
	}

	logs, total, err := s.repo.Recent(ctx, limit)
	if err != nil {
		s.logger.Error("Recent: failed to read call logs: %v", err)
		return nil, fmt.Errorf("%w: failed to read call logs: %v", ErrInternal, err)
	}
	return &models.LogsPage{Logs: logs, Total: total}, nil
}

// Clear очищает журнал
func (s *Service) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		s.logger.Error("Clear: failed to clear call logs: %v", err)
		return fmt.Errorf("%w: failed to clear call logs: %v", ErrInternal, err)
	}
	s.logger.Info("Clear: call logs cleared")
	return nil
}

// TransferNumber номер для перевода звонка
func (s *Service) TransferNumber() string {
	return s.clinic.Phone
}

func (s *Service) newEntry(kind domain.CallLogType, callID string) domain.CallLogEntry {
	return domain.CallLogEntry{
		ID:        uuid.NewString(),
		Type:      kind,
		Timestamp: s.timeProvider.Now().UTC(),
		CallID:    callID,
	}
}

func (s *Service) append(ctx context.Context, entry domain.CallLogEntry) error {
	if err := s.repo.Append(ctx, entry); err != nil {
		s.logger.Error("CallLog: failed to append %s entry for call_id=%s: %v", entry.Type, entry.CallID, err)
		return fmt.Errorf("%w: failed to append call log: %v", ErrInternal, err)
	}
	return nil
}
