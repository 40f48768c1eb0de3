package get_call_logs

import (
	"context"
	"net/http"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/service/calls/models"
)

type CallsService interface {
	Recent(ctx context.Context, limit int) (*models.LogsPage, error)
}

type Logger interface {
	Error(format string, v ...interface{})
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

// Handle GET /api/vapi/logs
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Recent(r.Context(), 0)
	if err != nil {
		h.logger.Error("GET /vapi/logs - Failed to read call logs: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, page)
}
