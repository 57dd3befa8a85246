package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fisiomanager/clinic-api/internal/model"
)

const recordColumns = `
	r.id, p.clinic_id AS clinic_id, r.patient_id, r.record_date,
	r.medical_diagnosis, r.subjective_notes, r.objective_notes,
	r.assessment, r.plan, r.created_at, r.updated_at
`

func (r *recordRepository) Create(ctx context.Context, record *model.ElectronicRecord) error {
	query := `
		INSERT INTO electronic_records (
			id, patient_id, record_date, medical_diagnosis,
			subjective_notes, objective_notes, assessment, plan,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.PatientID,
		record.RecordDate,
		record.MedicalDiagnosis,
		record.SubjectiveNotes,
		record.ObjectiveNotes,
		record.Assessment,
		record.Plan,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

func (r *recordRepository) Get(ctx context.Context, id uuid.UUID) (*model.ElectronicRecord, error) {
	query := `SELECT ` + recordColumns + `
		FROM electronic_records r
		JOIN patients p ON r.patient_id = p.id
		WHERE r.id = $1`
	var record model.ElectronicRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, notFoundOr(err, "record")
	}
	return &record, nil
}

func (r *recordRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.ElectronicRecord, error) {
	query := `SELECT ` + recordColumns + `
		FROM electronic_records r
		JOIN patients p ON r.patient_id = p.id
		WHERE r.patient_id = $1
		ORDER BY r.record_date DESC`
	var records []*model.ElectronicRecord
	if err := r.db.SelectContext(ctx, &records, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}
