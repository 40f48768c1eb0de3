package get_clinic_info

import (
	"net/http"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
)

type DashboardService interface {
	ClinicInfo() domain.ClinicInfo
}

// ClinicInfoResponse HTTP response model
type ClinicInfoResponse struct {
	Success bool              `json:"success"`
	Clinic  domain.ClinicInfo `json:"clinic"`
}

type Handler struct {
	service DashboardService
}

func NewHandler(service DashboardService) *Handler {
	return &Handler{service: service}
}

// Handle GET /api/dashboard/clinic-info
func (h *Handler) Handle(w http.ResponseWriter, _ *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, ClinicInfoResponse{Success: true, Clinic: h.service.ClinicInfo()})
}
