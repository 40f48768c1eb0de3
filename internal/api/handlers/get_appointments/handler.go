package get_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/service/dashboard/models"
)

// AppointmentsResponse HTTP response model
type AppointmentsResponse struct {
	Success      bool                         `json:"success"`
	Appointments []models.AppointmentResponse `json:"appointments"`
	Count        int                          `json:"count"`
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

// Handle GET /api/dashboard/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.service.ListAppointments(r.Context())
	if err != nil {
		h.logger.Error("GET /dashboard/appointments - Failed to list appointments: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /dashboard/appointments - Appointments retrieved successfully: count=%d", len(appointments))
	handlers.RespondJSON(w, http.StatusOK, AppointmentsResponse{
		Success:      true,
		Appointments: appointments,
		Count:        len(appointments),
	})
}
