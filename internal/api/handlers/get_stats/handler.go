package get_stats

import (
	"net/http"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/service/dashboard/models"
)

// StatsResponse HTTP response model
type StatsResponse struct {
	Success bool                  `json:"success"`
	Stats   *models.StatsResponse `json:"stats"`
}

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

// Handle GET /api/dashboard/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("GET /dashboard/stats - Failed to collect stats: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /dashboard/stats - Stats collected: appointments=%d, available_slots=%d",
		stats.TotalAppointments, stats.AvailableSlots)
	handlers.RespondJSON(w, http.StatusOK, StatsResponse{Success: true, Stats: stats})
}
