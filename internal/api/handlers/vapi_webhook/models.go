package vapi_webhook

import (
	"bytes"
	"encoding/json"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	faqModels "github.com/m04kA/SMC-VoiceReceptionist/internal/service/faq/models"
	bookAppointment "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/book_appointment"
	cancelAppointment "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/cancel_appointment"
	checkAvailability "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/check_availability"
	findAppointment "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/find_appointment"
	rescheduleAppointment "github.com/m04kA/SMC-VoiceReceptionist/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/types"
)

// Типы сообщений голосовой платформы
const (
	MessageFunctionCall = "function-call"
	MessageEndOfCall    = "end-of-call-report"
	MessageStatusUpdate = "status-update"
)

// Имена функций ассистента
const (
	FnCheckAvailability     = "check_availability"
	FnBookAppointment       = "book_appointment"
	FnFindAppointment       = "find_appointment"
	FnRescheduleAppointment = "reschedule_appointment"
	FnCancelAppointment     = "cancel_appointment"
	FnGetFAQ                = "get_faq"
	FnEscalateToStaff       = "escalate_to_staff"
)

// WebhookRequest входящее сообщение платформы
type WebhookRequest struct {
	Message *Message `json:"message"`
	Call    *Call    `json:"call"`
}

// Message полезная нагрузка сообщения
type Message struct {
	Type         string        `json:"type"`
	FunctionCall *FunctionCall `json:"functionCall,omitempty"`
	EndedReason  string        `json:"endedReason,omitempty"`
	Summary      string        `json:"summary,omitempty"`
	Status       string        `json:"status,omitempty"`
}

// FunctionCall вызов функции ассистентом
type FunctionCall struct {
	Name       string          `json:"name"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
}

// Call данные звонка
type Call struct {
	ID       string    `json:"id"`
	Duration *float64  `json:"duration,omitempty"`
	Customer *Customer `json:"customer,omitempty"`
}

// Customer звонящий
type Customer struct {
	Number string `json:"number"`
}

func (c *Call) id() string {
	if c == nil {
		return ""
	}
	return c.ID
}

func (c *Call) callerPhone() string {
	if c == nil || c.Customer == nil {
		return ""
	}
	return c.Customer.Number
}

// normalizeParameters приводит параметры к JSON объекту.
// Платформа иногда присылает параметры строкой с JSON внутри.
func normalizeParameters(raw json.RawMessage) json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return json.RawMessage("{}")
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err == nil && json.Valid([]byte(inner)) {
			return json.RawMessage(inner)
		}
	}
	return raw
}

// ============================================================
// Параметры функций
// ============================================================

type checkAvailabilityParams struct {
	Date          types.LooseString `json:"date"`
	PreferredTime types.LooseString `json:"preferredTime"`
}

func (p checkAvailabilityParams) toUseCase() *checkAvailability.Request {
	return &checkAvailability.Request{
		Date:          p.Date.String(),
		PreferredTime: p.PreferredTime.String(),
	}
}

type bookAppointmentParams struct {
	PatientName     types.LooseString `json:"patientName"`
	Phone           types.LooseString `json:"phone"`
	Email           types.LooseString `json:"email"`
	Date            types.LooseString `json:"date"`
	Time            types.LooseString `json:"time"`
	AppointmentType types.LooseString `json:"appointmentType"`
	IsNewPatient    types.LooseBool   `json:"isNewPatient"`
}

func (p bookAppointmentParams) toUseCase() *bookAppointment.Request {
	return &bookAppointment.Request{
		PatientName:     p.PatientName.String(),
		Phone:           p.Phone.String(),
		Email:           p.Email.String(),
		Date:            p.Date.String(),
		Time:            p.Time.String(),
		AppointmentType: p.AppointmentType.String(),
		IsNewPatient:    p.IsNewPatient.Bool(),
	}
}

type findAppointmentParams struct {
	Phone       types.LooseString `json:"phone"`
	PatientName types.LooseString `json:"patientName"`
}

func (p findAppointmentParams) toUseCase() *findAppointment.Request {
	return &findAppointment.Request{
		Phone:       p.Phone.String(),
		PatientName: p.PatientName.String(),
	}
}

type rescheduleAppointmentParams struct {
	AppointmentID types.LooseString `json:"appointmentId"`
	NewDate       types.LooseString `json:"newDate"`
	NewTime       types.LooseString `json:"newTime"`
}

func (p rescheduleAppointmentParams) toUseCase() *rescheduleAppointment.Request {
	return &rescheduleAppointment.Request{
		AppointmentID: p.AppointmentID.String(),
		NewDate:       p.NewDate.String(),
		NewTime:       p.NewTime.String(),
	}
}

type cancelAppointmentParams struct {
	AppointmentID types.LooseString `json:"appointmentId"`
	Reason        types.LooseString `json:"reason"`
}

func (p cancelAppointmentParams) toUseCase() *cancelAppointment.Request {
	return &cancelAppointment.Request{
		AppointmentID: p.AppointmentID.String(),
		Reason:        p.Reason.String(),
	}
}

type faqParams struct {
	Question types.LooseString `json:"question"`
	Category types.LooseString `json:"category"`
}

func (p faqParams) toService() faqModels.Request {
	return faqModels.Request{
		Question: p.Question.String(),
		Category: p.Category.String(),
	}
}

type escalationParams struct {
	Reason  types.LooseString `json:"reason"`
	Message types.LooseString `json:"message"`
}

// ============================================================
// Ответы
// ============================================================

// FunctionResponse ответ на вызов функции
type FunctionResponse struct {
	Result interface{} `json:"result"`
}

// AckResponse подтверждение остальных сообщений
type AckResponse struct {
	Success bool `json:"success"`
}

// ResultEnvelope общий результат без данных
type ResultEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorEnvelope ответ при системной ошибке
type ErrorEnvelope struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	Escalate       bool   `json:"escalate"`
	TransferNumber string `json:"transferNumber,omitempty"`
	Error          string `json:"error"`
}

// SlotEnvelope слот для озвучивания
type SlotEnvelope struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Display string `json:"display"`
}

// CheckAvailabilityEnvelope результат check_availability
type CheckAvailabilityEnvelope struct {
	Success        bool           `json:"success"`
	Message        string         `json:"message"`
	AvailableSlots []SlotEnvelope `json:"availableSlots"`
}

// BookedAppointmentEnvelope созданная запись
type BookedAppointmentEnvelope struct {
	ID          int64  `json:"id"`
	PatientName string `json:"patientName"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Type        string `json:"type"`
}

// BookAppointmentEnvelope результат book_appointment
type BookAppointmentEnvelope struct {
	Success     bool                       `json:"success"`
	Message     string                     `json:"message"`
	Appointment *BookedAppointmentEnvelope `json:"appointment,omitempty"`
}

// FoundAppointmentEnvelope найденная запись
type FoundAppointmentEnvelope struct {
	ID      int64  `json:"id"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Type    string `json:"type"`
	Display string `json:"display"`
}

// FindAppointmentEnvelope результат find_appointment
type FindAppointmentEnvelope struct {
	Success      bool                       `json:"success"`
	Message      string                     `json:"message"`
	Appointments []FoundAppointmentEnvelope `json:"appointments"`
}

// RescheduledAppointmentEnvelope перенесённая запись
type RescheduledAppointmentEnvelope struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
	Time string `json:"time"`
}

// RescheduleAppointmentEnvelope результат reschedule_appointment
type RescheduleAppointmentEnvelope struct {
	Success     bool                            `json:"success"`
	Message     string                          `json:"message"`
	Appointment *RescheduledAppointmentEnvelope `json:"appointment,omitempty"`
}

// CancelledAppointmentEnvelope отменённая запись
type CancelledAppointmentEnvelope struct {
	ID     int64                    `json:"id"`
	Status domain.AppointmentStatus `json:"status"`
}

// CancelAppointmentEnvelope результат cancel_appointment
type CancelAppointmentEnvelope struct {
	Success     bool                          `json:"success"`
	Message     string                        `json:"message"`
	Appointment *CancelledAppointmentEnvelope `json:"appointment,omitempty"`
}

// FAQEnvelope результат get_faq
type FAQEnvelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Category   string `json:"category,omitempty"`
	Confidence string `json:"confidence,omitempty"`
	Escalate   bool   `json:"escalate,omitempty"`
}

func fromCheckAvailability(resp *checkAvailability.Response) *CheckAvailabilityEnvelope {
	slots := make([]SlotEnvelope, 0, len(resp.AvailableSlots))
	for _, s := range resp.AvailableSlots {
		slots = append(slots, SlotEnvelope{Date: s.Date, Time: s.Time, Display: s.Display})
	}
	return &CheckAvailabilityEnvelope{
		Success:        resp.Success,
		Message:        resp.Message,
		AvailableSlots: slots,
	}
}

func fromBookAppointment(resp *bookAppointment.Response) *BookAppointmentEnvelope {
	env := &BookAppointmentEnvelope{Success: resp.Success, Message: resp.Message}
	if a := resp.Appointment; a != nil {
		env.Appointment = &BookedAppointmentEnvelope{
			ID:          a.ID,
			PatientName: a.PatientName,
			Date:        a.Date,
			Time:        a.Time,
			Type:        a.Type,
		}
	}
	return env
}

func fromFindAppointment(resp *findAppointment.Response) *FindAppointmentEnvelope {
	list := make([]FoundAppointmentEnvelope, 0, len(resp.Appointments))
	for _, a := range resp.Appointments {
		list = append(list, FoundAppointmentEnvelope{
			ID:      a.ID,
			Date:    a.Date,
			Time:    a.Time,
			Type:    a.Type,
			Display: a.Display,
		})
	}
	return &FindAppointmentEnvelope{
		Success:      resp.Success,
		Message:      resp.Message,
		Appointments: list,
	}
}

func fromRescheduleAppointment(resp *rescheduleAppointment.Response) *RescheduleAppointmentEnvelope {
	env := &RescheduleAppointmentEnvelope{Success: resp.Success, Message: resp.Message}
	if a := resp.Appointment; a != nil {
		env.Appointment = &RescheduledAppointmentEnvelope{ID: a.ID, Date: a.Date, Time: a.Time}
	}
	return env
}

func fromCancelAppointment(resp *cancelAppointment.Response) *CancelAppointmentEnvelope {
	env := &CancelAppointmentEnvelope{Success: resp.Success, Message: resp.Message}
	if a := resp.Appointment; a != nil {
		env.Appointment = &CancelledAppointmentEnvelope{ID: a.ID, Status: a.Status}
	}
	return env
}

func fromFAQ(resp *faqModels.Response) *FAQEnvelope {
	return &FAQEnvelope{
		Success:    resp.Success,
		Message:    resp.Message,
		Category:   resp.Category,
		Confidence: resp.Confidence,
		Escalate:   resp.Escalate,
	}
}
