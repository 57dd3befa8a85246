package model

import (
	"time"

	"github.com/google/uuid"
)

// ElectronicRecord is one SOAP entry in a patient's electronic chart.
type ElectronicRecord struct {
	Base
	ClinicID         uuid.UUID `db:"clinic_id" json:"-"`
	PatientID        uuid.UUID `db:"patient_id" json:"patient_id"`
	RecordDate       time.Time `db:"record_date" json:"record_date"`
	MedicalDiagnosis *string   `db:"medical_diagnosis" json:"medical_diagnosis,omitempty"`
	SubjectiveNotes  string    `db:"subjective_notes" json:"subjective_notes"`
	ObjectiveNotes   string    `db:"objective_notes" json:"objective_notes"`
	Assessment       string    `db:"assessment" json:"assessment"`
	Plan             string    `db:"plan" json:"plan"`
}

type CreateRecordRequest struct {
	MedicalDiagnosis *string `json:"medical_diagnosis"`
	SubjectiveNotes  string  `json:"subjective_notes" binding:"required"`
	ObjectiveNotes   string  `json:"objective_notes" binding:"required"`
	Assessment       string  `json:"assessment" binding:"required"`
	Plan             string  `json:"plan" binding:"required"`
}
