package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fisiomanager/clinic-api/internal/model"
)

const assessmentColumns = `
	a.id, p.clinic_id AS clinic_id, a.patient_id, a.main_complaint,
	a.history_of_present_illness, a.past_medical_history, a.medications,
	a.social_history, a.inspection_notes, a.palpation_notes,
	a.mobility_assessment, a.strength_assessment, a.neuro_assessment,
	a.functional_assessment, a.diagnosis, a.goals, a.treatment_plan,
	a.created_at, a.updated_at
`

func (r *assessmentRepository) CreateWithFiles(ctx context.Context, assessment *model.Assessment, files []*model.UploadedFile) error {
	assessmentQuery := `
		INSERT INTO assessments (
			id, patient_id, main_complaint, history_of_present_illness,
			past_medical_history, medications, social_history,
			inspection_notes, palpation_notes, mobility_assessment,
			strength_assessment, neuro_assessment, functional_assessment,
			diagnosis, goals, treatment_plan, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	fileQuery := `
		INSERT INTO uploaded_files (id, assessment_id, public_id, secure_url, resource_type)
		VALUES ($1, $2, $3, $4, $5)
	`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		assessment.CreatedAt = time.Now()
		assessment.UpdatedAt = time.Now()

		_, err := tx.ExecContext(ctx, assessmentQuery,
			assessment.ID,
			assessment.PatientID,
			assessment.MainComplaint,
			assessment.HistoryOfPresentIllness,
			assessment.PastMedicalHistory,
			assessment.Medications,
			assessment.SocialHistory,
			assessment.InspectionNotes,
			assessment.PalpationNotes,
			assessment.MobilityAssessment,
			assessment.StrengthAssessment,
			assessment.NeuroAssessment,
			assessment.FunctionalAssessment,
			assessment.Diagnosis,
			assessment.Goals,
			assessment.TreatmentPlan,
			assessment.CreatedAt,
			assessment.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create assessment: %w", err)
		}

		for _, file := range files {
			file.AssessmentID = assessment.ID
			_, err := tx.ExecContext(ctx, fileQuery,
				file.ID,
				file.AssessmentID,
				file.PublicID,
				file.SecureURL,
				file.ResourceType,
			)
			if err != nil {
				return fmt.Errorf("failed to create uploaded file: %w", err)
			}
		}
		return nil
	})
}

func (r *assessmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Assessment, error) {
	query := `SELECT ` + assessmentColumns + `
		FROM assessments a
		JOIN patients p ON a.patient_id = p.id
		WHERE a.id = $1`
	var assessment model.Assessment
	if err := r.db.GetContext(ctx, &assessment, query, id); err != nil {
		return nil, notFoundOr(err, "assessment")
	}
	return &assessment, nil
}

func (r *assessmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Assessment, error) {
	query := `SELECT ` + assessmentColumns + `
		FROM assessments a
		JOIN patients p ON a.patient_id = p.id
		WHERE a.patient_id = $1
		ORDER BY a.created_at DESC`
	var assessments []*model.Assessment
	if err := r.db.SelectContext(ctx, &assessments, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return assessments, nil
}

func (r *assessmentRepository) ListFiles(ctx context.Context, assessmentID uuid.UUID) ([]*model.UploadedFile, error) {
	query := `
		SELECT id, assessment_id, public_id, secure_url, resource_type
		FROM uploaded_files
		WHERE assessment_id = $1
	`
	var files []*model.UploadedFile
	if err := r.db.SelectContext(ctx, &files, query, assessmentID); err != nil {
		return nil, fmt.Errorf("failed to list uploaded files: %w", err)
	}
	return files, nil
}
