package health

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/api/handlers"
)

const statusHealthy = "healthy"

type TimeProvider interface {
	Now() time.Time
}

// HealthResponse HTTP response model
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}

type Handler struct {
	environment  string
	timeProvider TimeProvider
}

func NewHandler(environment string, timeProvider TimeProvider) *Handler {
	return &Handler{
		environment:  environment,
		timeProvider: timeProvider,
	}
}

// Handle GET /health
func (h *Handler) Handle(w http.ResponseWriter, _ *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:      statusHealthy,
		Timestamp:   h.timeProvider.Now().UTC(),
		Environment: h.environment,
	})
}
