package vapi_webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/api/middleware"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	callsModels "github.com/m04kA/SMC-VoiceReceptionist/internal/service/calls/models"
)

const (
	msgWebhookFailed   = "Webhook processing failed"
	msgSystemError     = "I apologize, but I encountered an error. Let me transfer you to our staff."
	msgUnknownFunction = "Unknown function: %s"

	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeError   = "error"
)

// UseCases операции расписания, доступные ассистенту
type UseCases struct {
	CheckAvailability     CheckAvailabilityUseCase
	BookAppointment       BookAppointmentUseCase
	FindAppointment       FindAppointmentUseCase
	RescheduleAppointment RescheduleAppointmentUseCase
	CancelAppointment     CancelAppointmentUseCase
}

type nopMetrics struct{}

func (nopMetrics) ObserveFunctionCall(string, string, time.Duration) {}
func (nopMetrics) IncSlotConflict(string)                            {}

// Handler обработчик вебхука голосовой платформы
type Handler struct {
	useCases       UseCases
	faq            FAQService
	calls          CallsService
	metrics        Metrics
	requestTimeout time.Duration
	logger         Logger
}

// NewHandler создает обработчик вебхука. requestTimeout <= 0 отключает таймаут вызова
func NewHandler(
	useCases UseCases,
	faq FAQService,
	calls CallsService,
	metrics Metrics,
	requestTimeout time.Duration,
	logger Logger,
) *Handler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Handler{
		useCases:       useCases,
		faq:            faq,
		calls:          calls,
		metrics:        metrics,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}

// Handle POST /api/vapi/webhook
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req WebhookRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vapi/webhook - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgWebhookFailed, err.Error())
		return
	}

	messageType := ""
	if req.Message != nil {
		messageType = req.Message.Type
	}
	requestID, _ := middleware.GetRequestID(r.Context())
	h.logger.Info("POST /vapi/webhook - Message received: type=%q, call_id=%s, request_id=%s", messageType, req.Call.id(), requestID)

	switch messageType {
	case MessageFunctionCall:
		h.handleFunctionCall(w, r, &req)

	case MessageEndOfCall:
		h.handleEndOfCall(w, r, &req)

	case MessageStatusUpdate:
		h.logger.Debug("POST /vapi/webhook - Status update: call_id=%s, status=%q", req.Call.id(), req.Message.Status)
		handlers.RespondJSON(w, http.StatusOK, AckResponse{Success: true})

	default:
		h.logger.Warn("POST /vapi/webhook - Unknown message type: %q", messageType)
		handlers.RespondJSON(w, http.StatusOK, AckResponse{Success: true})
	}
}

func (h *Handler) handleFunctionCall(w http.ResponseWriter, r *http.Request, req *WebhookRequest) {
	name := ""
	var params json.RawMessage
	if fc := req.Message.FunctionCall; fc != nil {
		name = fc.Name
		params = fc.Parameters
	}
	params = normalizeParameters(params)
	callID := req.Call.id()

	h.logger.Info("POST /vapi/webhook - Function called: name=%s, call_id=%s, parameters=%s", name, callID, params)

	ctx := r.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	started := time.Now()
	result, success, failure, err := h.dispatch(ctx, name, params, req.Call)

	outcome := outcomeSuccess
	switch {
	case err != nil:
		outcome = outcomeError
		h.logger.Error("POST /vapi/webhook - Function failed: name=%s, call_id=%s, parameters=%s, error=%v",
			name, callID, params, err)
		result = &ErrorEnvelope{
			Success:        false,
			Message:        msgSystemError,
			Escalate:       true,
			TransferNumber: h.calls.TransferNumber(),
			Error:          err.Error(),
		}
		success = false

	case !success:
		outcome = outcomeFailure
		if failure == domain.FailureConflict {
			h.metrics.IncSlotConflict(name)
		}
	}
	h.metrics.ObserveFunctionCall(name, outcome, time.Since(started))

	// Журнал пишется и после таймаута вызова
	logCtx := context.WithoutCancel(r.Context())
	if logErr := h.calls.LogFunctionCall(logCtx, callsModels.FunctionCall{
		CallID:   callID,
		Function: name,
		Params:   params,
		Result:   result,
		Success:  success,
	}); logErr != nil {
		h.logger.Warn("POST /vapi/webhook - Failed to log function call: name=%s, call_id=%s, error=%v", name, callID, logErr)
	}

	handlers.RespondJSON(w, http.StatusOK, FunctionResponse{Result: result})
}

// dispatch выполняет функцию по имени.
// Ошибка означает системный сбой, ожидаемые отказы возвращаются через success=false.
func (h *Handler) dispatch(
	ctx context.Context,
	name string,
	params json.RawMessage,
	call *Call,
) (result interface{}, success bool, failure domain.FailureKind, err error) {
	switch name {
	case FnCheckAvailability:
		var p checkAvailabilityParams
		if err := decodeParams(params, &p); err != nil {
			return nil, false, domain.FailureNone, err
		}
		resp, err := h.useCases.CheckAvailability.Execute(ctx, p.toUseCase())
		if err != nil {
			return nil, false, domain.FailureNone, err
		}
		return fromCheckAvailability(resp), resp.Success, resp.Failure, nil

	case FnBookAppointment:
		var p bookAppointmentParams
		if err := decodeParams(params, &p); err != nil {
			return nil, false, domain.FailureNone, err
		}
		resp, err := h.useCases.BookAppointment.Execute(ctx, p.toUseCase())
		if err != nil {
			return nil, false, domain.FailureNone, err
		}
		return fromBookAppointment(resp), resp.Success, resp.Failure, nil

	case FnFindAppointment:
		var p findAppointmentParams
		if err := decodeParams(params, &p); err != nil {
			return nil, false, domain.FailureNone, err
		}
		resp, err := h.useCases.FindAppointment.Execute(ctx, p.toUseCase())
		if err != nil {
			return nil, false, domain.FailureNone, err
		}
		return fromFindAppointment(resp), resp.Success, resp.Failure, nil

	case FnRescheduleAppointment:
		var p rescheduleAppointmentParams
		if err := decodeParams(params, &p); err != nil {
			return nil, false, domain.FailureNone, err
		}
		resp, err := h.useCases.RescheduleAppointment.Execute(ctx, p.toUseCase())
		if err != nil {
			return nil, false, domain.FailureNone, err
		}
		return fromRescheduleAppointment(resp), resp.Success, resp.Failure, nil

	case FnCancelAppointment:
		var p cancelAppointmentParams
		if err := decodeParams(params, &p); err != nil {
			return nil, false, domain.FailureNone, err
		}
		resp, err := h.useCases.CancelAppointment.Execute(ctx, p.toUseCase())
		if err != nil {
			return nil, false, domain.FailureNone, err
		}
		return fromCancelAppointment(resp), resp.Success, resp.Failure, nil

	case FnGetFAQ:
		var p faqParams
		if err := decodeParams(params, &p); err != nil {
			return nil, false, domain.FailureNone, err
		}
		resp := h.faq.Get(p.toService())
		return fromFAQ(resp), resp.Success, domain.FailureNone, nil

	case FnEscalateToStaff:
		var p escalationParams
		if err := decodeParams(params, &p); err != nil {
			return nil, false, domain.FailureNone, err
		}
		resp := h.calls.Escalate(ctx, callsModels.EscalationRequest{
			CallID:      call.id(),
			CallerPhone: call.callerPhone(),
			Reason:      p.Reason.String(),
			Message:     p.Message.String(),
		})
		return resp, resp.Success, domain.FailureNone, nil

	default:
		h.logger.Warn("POST /vapi/webhook - Unknown function: %q", name)
		return &ResultEnvelope{Success: false, Message: fmt.Sprintf(msgUnknownFunction, name)}, false, domain.FailureNone, nil
	}
}

func (h *Handler) handleEndOfCall(w http.ResponseWriter, r *http.Request, req *WebhookRequest) {
	report := callsModels.CallEnded{
		CallID:    req.Call.id(),
		EndReason: req.Message.EndedReason,
		Summary:   req.Message.Summary,
	}
	if req.Call != nil {
		report.Duration = req.Call.Duration
	}

	if err := h.calls.LogCallEnded(r.Context(), report); err != nil {
		h.logger.Warn("POST /vapi/webhook - Failed to log call end: call_id=%s, error=%v", report.CallID, err)
	}
	handlers.RespondJSON(w, http.StatusOK, AckResponse{Success: true})
}

func decodeParams(params json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("invalid function parameters: %w", err)
	}
	return nil
}
