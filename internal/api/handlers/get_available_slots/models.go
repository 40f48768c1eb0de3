package get_available_slots

import "github.com/m04kA/SMC-VoiceReceptionist/internal/service/dashboard/models"

// SlotsResponse HTTP response model
type SlotsResponse struct {
	Success bool                  `json:"success"`
	Slots   []models.SlotResponse `json:"slots"`
	Count   int                   `json:"count"`
}
