package models

import (
	"encoding/json"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
)

// FunctionCall выполненный вызов функции голосового ассистента
type FunctionCall struct {
	CallID   string
	Function string
	Params   json.RawMessage
	Result   interface{} // сериализуется в JSON
	Success  bool
}

// CallEnded отчёт о завершении звонка
type CallEnded struct {
	CallID    string
	Duration  *float64
	EndReason string
	Summary   string
}

// EscalationRequest параметры escalate_to_staff
type EscalationRequest struct {
	CallID      string
	CallerPhone string
	Reason      string
	Message     string
}

// EscalationResponse ответ ассистенту при переводе звонка
type EscalationResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	Action         string `json:"action"`
	TransferNumber string `json:"transferNumber"`
}

// LogsPage последние записи журнала
type LogsPage struct {
	Logs  []domain.CallLogEntry `json:"logs"`
	Total int                   `json:"total"`
}
