package domain

import (
	"encoding/json"
	"time"
)

// CallLogType kind of a call log entry
type CallLogType string

const (
	CallLogFunctionCall CallLogType = "function-call"
	CallLogCallEnded    CallLogType = "call-ended"
	CallLogEscalation   CallLogType = "escalation"
)

// CallLogEntry a single event of a voice call
type CallLogEntry struct {
	ID        string          `json:"id"`
	Type      CallLogType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	CallID    string          `json:"callId,omitempty"`
	Function  string          `json:"function,omitempty"`
	Params    json.RawMessage `json:"parameters,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Success   *bool           `json:"success,omitempty"`

	// call-ended
	Duration  *float64 `json:"duration,omitempty"`
	EndReason string   `json:"endReason,omitempty"`
	Summary   string   `json:"summary,omitempty"`

	// escalation
	CallerPhone string `json:"callerPhone,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Message     string `json:"message,omitempty"`
}
