package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/service/dashboard"
)

const (
	msgInvalidDate = "Invalid date"
	msgDateFormat  = "expected YYYY-MM-DD"
)

type Handler struct {
	service DashboardService
	logger  Logger
}

func NewHandler(service DashboardService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/dashboard/available-slots
// Query params: date (optional, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var date *string
	if v := r.URL.Query().Get("date"); v != "" {
		date = &v
	}

	slots, err := h.service.ListAvailableSlots(r.Context(), date)
	if err != nil {
		switch {
		case errors.Is(err, dashboard.ErrInvalidDate):
			h.logger.Warn("GET /dashboard/available-slots - Invalid date: %q", *date)
			handlers.RespondBadRequest(w, msgInvalidDate, msgDateFormat)

		default:
			h.logger.Error("GET /dashboard/available-slots - Failed to list slots: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /dashboard/available-slots - Slots retrieved successfully: slots_count=%d", len(slots))
	handlers.RespondJSON(w, http.StatusOK, SlotsResponse{Success: true, Slots: slots, Count: len(slots)})
}
