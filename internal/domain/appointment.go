package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-VoiceReceptionist/pkg/types"
)

// ErrInvalidAppointmentID returned when an appointment id cannot be parsed
var ErrInvalidAppointmentID = errors.New("domain: invalid appointment id")

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a patient's reservation against a slot
type Appointment struct {
	ID           int64
	PatientName  string
	Phone        string // DDD-DDD-DDDD
	Email        *string
	Date         string // YYYY-MM-DD
	Time         types.TimeString
	Type         string
	IsNewPatient bool
	Status       AppointmentStatus

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// IsActive returns true if the appointment still holds its slot
func (a *Appointment) IsActive() bool {
	return a.Status == StatusConfirmed
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// SlotKey returns the slot the appointment occupies
func (a *Appointment) SlotKey() SlotKey {
	return SlotKey{Date: a.Date, Time: a.Time}
}

// Clone returns a deep copy
func (a *Appointment) Clone() *Appointment {
	c := *a
	if a.Email != nil {
		email := *a.Email
		c.Email = &email
	}
	if a.CancellationReason != nil {
		reason := *a.CancellationReason
		c.CancellationReason = &reason
	}
	if a.CancelledAt != nil {
		at := *a.CancelledAt
		c.CancelledAt = &at
	}
	if a.UpdatedAt != nil {
		at := *a.UpdatedAt
		c.UpdatedAt = &at
	}
	return &c
}

// AppointmentFilter filter for listing appointments
type AppointmentFilter struct {
	Phone            *string // DDD-DDD-DDDD (опционально)
	IncludeCancelled bool
}

// ParseAppointmentID parses ids like "3", "3.0" or "#3"
func ParseAppointmentID(s string) (int64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	s = strings.TrimSuffix(s, ".0")
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidAppointmentID
	}
	return id, nil
}
