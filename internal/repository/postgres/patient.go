package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fisiomanager/clinic-api/internal/model"
	apperrors "github.com/fisiomanager/clinic-api/pkg/errors"
)

const patientColumns = `
	id, clinic_id, user_id, full_name, date_of_birth, gender, phone,
	specialty, created_at, updated_at
`

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, clinic_id, user_id, full_name, date_of_birth, gender, phone,
			specialty, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.ClinicID,
		patient.UserID,
		patient.FullName,
		patient.DateOfBirth,
		patient.Gender,
		patient.Phone,
		patient.Specialty,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, notFoundOr(err, "patient")
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET full_name = $1, date_of_birth = $2, gender = $3, phone = $4,
			specialty = $5, updated_at = $6
		WHERE id = $7
	`
	patient.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		patient.FullName,
		patient.DateOfBirth,
		patient.Gender,
		patient.Phone,
		patient.Specialty,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient", nil)
	}
	return nil
}

// DeleteCascade removes the patient and everything hanging off it. One
// transaction: files first (deepest in the ownership chain), then
// assessments, records, appointments, and finally the patient row.
func (r *patientRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		steps := []string{
			`DELETE FROM uploaded_files WHERE assessment_id IN (SELECT id FROM assessments WHERE patient_id = $1)`,
			`DELETE FROM assessments WHERE patient_id = $1`,
			`DELETE FROM electronic_records WHERE patient_id = $1`,
			`DELETE FROM appointments WHERE patient_id = $1`,
		}
		for _, step := range steps {
			if _, err := tx.ExecContext(ctx, step, id); err != nil {
				return fmt.Errorf("failed to cascade patient delete: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete patient: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NotFound("patient", nil)
		}
		return nil
	})
}

// List fetches one page of summaries in a single round trip: a grouped
// subquery for the appointment count and a lateral join for the most recent
// diagnosis.
func (r *patientRepository) List(ctx context.Context, clinicID uuid.UUID, filters *model.PatientFilters) ([]*model.PatientSummary, int, error) {
	filters.Normalize()

	where := `WHERE p.clinic_id = $1`
	args := []interface{}{clinicID}
	if filters.Search != "" {
		where += ` AND p.full_name ILIKE $2`
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM patients p ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.clinic_id, p.user_id, p.full_name, p.date_of_birth,
			p.gender, p.phone, p.specialty, p.created_at, p.updated_at,
			COALESCE(ac.appointment_count, 0) AS appointment_count,
			COALESCE(d.medical_diagnosis, '') AS latest_diagnosis
		FROM patients p
		LEFT JOIN (
			SELECT patient_id, COUNT(*) AS appointment_count
			FROM appointments
			GROUP BY patient_id
		) ac ON ac.patient_id = p.id
		LEFT JOIN LATERAL (
			SELECT medical_diagnosis
			FROM electronic_records
			WHERE patient_id = p.id AND medical_diagnosis IS NOT NULL
			ORDER BY record_date DESC
			LIMIT 1
		) d ON true
		%s
		ORDER BY p.full_name ASC
		LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	args = append(args, filters.PageSize, filters.Offset())

	var summaries []*model.PatientSummary
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	return summaries, total, nil
}

func (r *patientRepository) ListOptions(ctx context.Context, clinicID uuid.UUID) ([]*model.PatientOption, error) {
	query := `SELECT id, full_name FROM patients WHERE clinic_id = $1 ORDER BY full_name ASC`
	var options []*model.PatientOption
	if err := r.db.SelectContext(ctx, &options, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list patient options: %w", err)
	}
	return options, nil
}

func (r *patientRepository) ListRecent(ctx context.Context, clinicID uuid.UUID, limit int) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + `
		FROM patients
		WHERE clinic_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, clinicID, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) ListBirthdays(ctx context.Context, clinicID uuid.UUID, month time.Month) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + `
		FROM patients
		WHERE clinic_id = $1
		AND EXTRACT(MONTH FROM date_of_birth) = $2
		ORDER BY EXTRACT(DAY FROM date_of_birth) ASC`
	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, clinicID, int(month)); err != nil {
		return nil, fmt.Errorf("failed to list birthdays: %w", err)
	}
	return patients, nil
}
