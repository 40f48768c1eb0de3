package check_availability

import "github.com/m04kA/SMC-VoiceReceptionist/internal/domain"

// Request параметры вызова check_availability
type Request struct {
	Date          string // свободный формат ("tomorrow", "2/18/2026"), опционально
	PreferredTime string // morning | afternoon | evening, опционально
}

// SlotView слот в виде для озвучивания
type SlotView struct {
	Date    string // YYYY-MM-DD
	Time    string // "9:00 AM"
	Display string // "Wednesday, February 18 at 9:00 AM"
}

// Response результат проверки доступности
type Response struct {
	Success bool
	Failure domain.FailureKind
	Message string

	// AvailableSlots найденные слоты или, при неудаче, альтернативные предложения
	AvailableSlots []SlotView

	// Slots исходные слоты (только при успехе)
	Slots []domain.Slot
}
