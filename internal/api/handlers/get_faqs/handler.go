package get_faqs

import (
	"net/http"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers"
	faqModels "github.com/m04kA/SMC-VoiceReceptionist/internal/service/faq/models"
)

type DashboardService interface {
	FAQs() []faqModels.FAQ
}

// FAQsResponse HTTP response model
type FAQsResponse struct {
	Success bool            `json:"success"`
	FAQs    []faqModels.FAQ `json:"faqs"`
	Count   int             `json:"count"`
}

type Handler struct {
	service DashboardService
}

func NewHandler(service DashboardService) *Handler {
	return &Handler{service: service}
}

// Handle GET /api/dashboard/faqs
func (h *Handler) Handle(w http.ResponseWriter, _ *http.Request) {
	faqs := h.service.FAQs()
	handlers.RespondJSON(w, http.StatusOK, FAQsResponse{Success: true, FAQs: faqs, Count: len(faqs)})
}
