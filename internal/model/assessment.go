package model

import (
	"github.com/google/uuid"
)

// Assessment is the full physiotherapy evaluation. Every section is an
// explicitly nullable attribute; new sections are added here, not as ad hoc
// columns elsewhere.
type Assessment struct {
	Base
	ClinicID  uuid.UUID `db:"clinic_id" json:"-"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`

	MainComplaint           *string `db:"main_complaint" json:"main_complaint,omitempty"`
	HistoryOfPresentIllness *string `db:"history_of_present_illness" json:"history_of_present_illness,omitempty"`
	PastMedicalHistory      *string `db:"past_medical_history" json:"past_medical_history,omitempty"`
	Medications             *string `db:"medications" json:"medications,omitempty"`
	SocialHistory           *string `db:"social_history" json:"social_history,omitempty"`

	InspectionNotes      *string `db:"inspection_notes" json:"inspection_notes,omitempty"`
	PalpationNotes       *string `db:"palpation_notes" json:"palpation_notes,omitempty"`
	MobilityAssessment   *string `db:"mobility_assessment" json:"mobility_assessment,omitempty"`
	StrengthAssessment   *string `db:"strength_assessment" json:"strength_assessment,omitempty"`
	NeuroAssessment      *string `db:"neuro_assessment" json:"neuro_assessment,omitempty"`
	FunctionalAssessment *string `db:"functional_assessment" json:"functional_assessment,omitempty"`

	Diagnosis     *string `db:"diagnosis" json:"diagnosis,omitempty"`
	Goals         *string `db:"goals" json:"goals,omitempty"`
	TreatmentPlan *string `db:"treatment_plan" json:"treatment_plan,omitempty"`

	Files []*UploadedFile `db:"-" json:"files,omitempty"`
}

// UploadedFile records what the media store returned for one upload.
type UploadedFile struct {
	ID           uuid.UUID `db:"id" json:"id"`
	AssessmentID uuid.UUID `db:"assessment_id" json:"assessment_id"`
	PublicID     string    `db:"public_id" json:"public_id"`
	SecureURL    string    `db:"secure_url" json:"secure_url"`
	ResourceType string    `db:"resource_type" json:"resource_type"`
}

type CreateAssessmentRequest struct {
	MainComplaint           *string `form:"main_complaint" json:"main_complaint"`
	HistoryOfPresentIllness *string `form:"history_of_present_illness" json:"history_of_present_illness"`
	PastMedicalHistory      *string `form:"past_medical_history" json:"past_medical_history"`
	Medications             *string `form:"medications" json:"medications"`
	SocialHistory           *string `form:"social_history" json:"social_history"`
	InspectionNotes         *string `form:"inspection_notes" json:"inspection_notes"`
	PalpationNotes          *string `form:"palpation_notes" json:"palpation_notes"`
	MobilityAssessment      *string `form:"mobility_assessment" json:"mobility_assessment"`
	StrengthAssessment      *string `form:"strength_assessment" json:"strength_assessment"`
	NeuroAssessment         *string `form:"neuro_assessment" json:"neuro_assessment"`
	FunctionalAssessment    *string `form:"functional_assessment" json:"functional_assessment"`
	Diagnosis               *string `form:"diagnosis" json:"diagnosis"`
	Goals                   *string `form:"goals" json:"goals"`
	TreatmentPlan           *string `form:"treatment_plan" json:"treatment_plan"`
}
