package clear_call_logs

import (
	"context"
	"net/http"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers"
)

const msgLogsCleared = "Logs cleared"

type CallsService interface {
	Clear(ctx context.Context) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ClearResponse HTTP response model
type ClearResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Handler struct {
	service CallsService
	logger  Logger
}

func NewHandler(service CallsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/vapi/logs
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		h.logger.Error("DELETE /vapi/logs - Failed to clear call logs: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /vapi/logs - Call logs cleared")
	handlers.RespondJSON(w, http.StatusOK, ClearResponse{Success: true, Message: msgLogsCleared})
}
