package model

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	Base
	ClinicID    uuid.UUID `db:"clinic_id" json:"clinic_id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	FullName    string    `db:"full_name" json:"full_name"`
	DateOfBirth time.Time `db:"date_of_birth" json:"date_of_birth"`
	Gender      *string   `db:"gender" json:"gender,omitempty"`
	Phone       string    `db:"phone" json:"phone"`
	Specialty   *string   `db:"specialty" json:"specialty,omitempty"`
}

// Age computes the patient's age in full years at the given date.
func (p *Patient) Age(today time.Time) int {
	age := today.Year() - p.DateOfBirth.Year()
	if today.Month() < p.DateOfBirth.Month() ||
		(today.Month() == p.DateOfBirth.Month() && today.Day() < p.DateOfBirth.Day()) {
		age--
	}
	return age
}

type CreatePatientRequest struct {
	FullName    string  `json:"full_name" binding:"required"`
	DateOfBirth string  `json:"date_of_birth" binding:"required,dateonly"`
	Gender      *string `json:"gender"`
	Phone       string  `json:"phone" binding:"required"`
	Specialty   *string `json:"specialty"`
}

type UpdatePatientRequest struct {
	FullName    *string `json:"full_name"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,dateonly"`
	Gender      *string `json:"gender"`
	Phone       *string `json:"phone"`
	Specialty   *string `json:"specialty"`
}

type PatientFilters struct {
	Search string `form:"q"`
	Pagination
}

// PatientSummary is the list-view row: the patient plus the aggregates the
// panel shows alongside it, computed in the same query.
type PatientSummary struct {
	Patient
	AppointmentCount int    `db:"appointment_count" json:"appointment_count"`
	LatestDiagnosis  string `db:"latest_diagnosis" json:"latest_diagnosis"`
}

// PatientOption is the slim shape used by the scheduling form.
type PatientOption struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"full_name" json:"name"`
}

type PatientPage struct {
	Items    []*PatientSummary `json:"items"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}
