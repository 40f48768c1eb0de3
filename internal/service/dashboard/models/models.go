package models

import (
	"time"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
)

// AppointmentResponse запись для дашборда
type AppointmentResponse struct {
	ID                 int64                    `json:"id"`
	PatientName        string                   `json:"patientName"`
	Phone              string                   `json:"phone"`
	Email              *string                  `json:"email,omitempty"`
	Date               string                   `json:"date"`
	Time               string                   `json:"time"`
	Type               string                   `json:"type"`
	IsNewPatient       bool                     `json:"isNewPatient"`
	Status             domain.AppointmentStatus `json:"status"`
	CancellationReason *string                  `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time                `json:"createdAt"`
	UpdatedAt          *time.Time               `json:"updatedAt,omitempty"`
	CancelledAt        *time.Time               `json:"cancelledAt,omitempty"`
}

// SlotResponse слот для дашборда
type SlotResponse struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// StatsResponse сводные показатели
type StatsResponse struct {
	TotalAppointments int    `json:"totalAppointments"`
	AvailableSlots    int    `json:"availableSlots"`
	TotalFAQs         int    `json:"totalFAQs"`
	ClinicName        string `json:"clinicName"`
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:                 a.ID,
		PatientName:        a.PatientName,
		Phone:              a.Phone,
		Email:              a.Email,
		Date:               a.Date,
		Time:               a.Time.String(),
		Type:               a.Type,
		IsNewPatient:       a.IsNewPatient,
		Status:             a.Status,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
		CancelledAt:        a.CancelledAt,
	}
}

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s domain.Slot) SlotResponse {
	return SlotResponse{
		Date:      s.Date,
		Time:      s.Time.String(),
		Available: s.Available,
	}
}
