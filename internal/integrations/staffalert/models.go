package staffalert

import "time"

// Alert уведомление сотрудникам о переводе звонка
type Alert struct {
	CallID      string    `json:"callId,omitempty"`
	CallerPhone string    `json:"callerPhone,omitempty"`
	Reason      string    `json:"reason"`
	Message     string    `json:"message,omitempty"`
	Clinic      string    `json:"clinic"`
	StaffPhone  string    `json:"staffPhone,omitempty"`
	StaffEmail  string    `json:"staffEmail,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
