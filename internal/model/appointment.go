package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

type AppointmentAction string

const (
	AppointmentActionComplete AppointmentAction = "complete"
	AppointmentActionCancel   AppointmentAction = "cancel"
	AppointmentActionDelete   AppointmentAction = "delete"
)

type Appointment struct {
	Base
	// ClinicID is derived through the patient; it is never written directly.
	ClinicID     uuid.UUID         `db:"clinic_id" json:"-"`
	PatientID    uuid.UUID         `db:"patient_id" json:"patient_id"`
	UserID       uuid.UUID         `db:"user_id" json:"user_id"`
	StartTime    time.Time         `db:"start_time" json:"start_time"`
	Location     string            `db:"location" json:"location"`
	Status       AppointmentStatus `db:"status" json:"status"`
	Notes        *string           `db:"notes" json:"notes,omitempty"`
	SessionPrice *float64          `db:"session_price" json:"session_price,omitempty"`
	AmountPaid   *float64          `db:"amount_paid" json:"amount_paid,omitempty"`
	PaymentNotes *string           `db:"payment_notes" json:"payment_notes,omitempty"`
	IsRecurring  bool              `db:"is_recurring" json:"is_recurring"`
	RecurrenceID *uuid.UUID        `db:"recurrence_id" json:"recurrence_id,omitempty"`
	PatientName  string            `db:"patient_name" json:"patient_name,omitempty"`
}

// RecurrenceRequest describes the weekly expansion of a scheduling request.
type RecurrenceRequest struct {
	Weekdays []string `json:"weekdays" binding:"required"`
	Weeks    int      `json:"weeks" binding:"required"`
}

type ScheduleAppointmentRequest struct {
	PatientID  uuid.UUID          `json:"patient_id" binding:"required"`
	StartTime  time.Time          `json:"start_time" binding:"required"`
	Location   string             `json:"location" binding:"required"`
	Notes      *string            `json:"notes"`
	Recurrence *RecurrenceRequest `json:"recurrence"`
}

// ScheduleResult reports what one scheduling request produced.
type ScheduleResult struct {
	Created      int        `json:"created"`
	RecurrenceID *uuid.UUID `json:"recurrence_id,omitempty"`
}

type UpdateAppointmentRequest struct {
	StartTime    *time.Time `json:"start_time"`
	Location     *string    `json:"location"`
	Notes        *string    `json:"notes"`
	SessionPrice *float64   `json:"session_price"`
	AmountPaid   *float64   `json:"amount_paid"`
	PaymentNotes *string    `json:"payment_notes"`
}

type AppointmentFilters struct {
	PatientID    uuid.UUID
	RecurrenceID uuid.UUID
	Status       AppointmentStatus
	StartDate    time.Time
	EndDate      time.Time
}

// CalendarEvent is the shape the agenda widget consumes.
type CalendarEvent struct {
	ID            uuid.UUID          `json:"id"`
	Title         string             `json:"title"`
	Start         string             `json:"start"`
	Color         string             `json:"color"`
	BorderColor   string             `json:"borderColor"`
	ExtendedProps CalendarEventProps `json:"extendedProps"`
}

type CalendarEventProps struct {
	Location     string     `json:"location"`
	Status       string     `json:"status"`
	Notes        *string    `json:"notes"`
	SessionPrice *float64   `json:"session_price"`
	AmountPaid   *float64   `json:"amount_paid"`
	PaymentNotes *string    `json:"payment_notes"`
	PatientID    uuid.UUID  `json:"patient_id"`
	RecurrenceID *uuid.UUID `json:"recurrence_id"`
}

// FinancialSummary sums billed vs collected amounts over an inclusive day
// range.
type FinancialSummary struct {
	StartDate      string         `json:"start_date"`
	EndDate        string         `json:"end_date"`
	TotalBilled    float64        `json:"total_billed"`
	TotalCollected float64        `json:"total_collected"`
	Appointments   []*Appointment `json:"appointments"`
}

type StatusSummary struct {
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}
