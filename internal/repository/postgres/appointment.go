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

// Appointment reads join through patients to resolve the owning clinic and to
// carry the patient's name for display.
const appointmentColumns = `
	a.id, p.clinic_id AS clinic_id, a.patient_id, a.user_id, a.start_time,
	a.location, a.status, a.notes, a.session_price, a.amount_paid,
	a.payment_notes, a.is_recurring, a.recurrence_id,
	p.full_name AS patient_name, a.created_at, a.updated_at
`

func (r *appointmentRepository) CreateBatch(ctx context.Context, appointments []*model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, user_id, start_time, location, status, notes,
			session_price, amount_paid, payment_notes, is_recurring,
			recurrence_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		now := time.Now()
		for _, appt := range appointments {
			appt.CreatedAt = now
			appt.UpdatedAt = now
			_, err := tx.ExecContext(ctx, query,
				appt.ID,
				appt.PatientID,
				appt.UserID,
				appt.StartTime,
				appt.Location,
				appt.Status,
				appt.Notes,
				appt.SessionPrice,
				appt.AmountPaid,
				appt.PaymentNotes,
				appt.IsRecurring,
				appt.RecurrenceID,
				appt.CreatedAt,
				appt.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to create appointment: %w", err)
			}
		}
		return nil
	})
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN patients p ON a.patient_id = p.id
		WHERE a.id = $1`
	var appt model.Appointment
	if err := r.db.GetContext(ctx, &appt, query, id); err != nil {
		return nil, notFoundOr(err, "appointment")
	}
	return &appt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET start_time = $1, location = $2, notes = $3, session_price = $4,
			amount_paid = $5, payment_notes = $6, updated_at = $7
		WHERE id = $8
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.StartTime,
		appointment.Location,
		appointment.Notes,
		appointment.SessionPrice,
		appointment.AmountPaid,
		appointment.PaymentNotes,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM appointments WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN patients p ON a.patient_id = p.id
		WHERE p.clinic_id = $1`
	args := []interface{}{clinicID}

	if filters != nil {
		if filters.PatientID != uuid.Nil {
			args = append(args, filters.PatientID)
			query += fmt.Sprintf(" AND a.patient_id = $%d", len(args))
		}
		if filters.RecurrenceID != uuid.Nil {
			args = append(args, filters.RecurrenceID)
			query += fmt.Sprintf(" AND a.recurrence_id = $%d", len(args))
		}
		if filters.Status != "" {
			args = append(args, filters.Status)
			query += fmt.Sprintf(" AND a.status = $%d", len(args))
		}
		if !filters.StartDate.IsZero() {
			args = append(args, filters.StartDate)
			query += fmt.Sprintf(" AND a.start_time >= $%d", len(args))
		}
		if !filters.EndDate.IsZero() {
			args = append(args, filters.EndDate)
			query += fmt.Sprintf(" AND a.start_time < $%d", len(args))
		}
	}
	query += " ORDER BY a.start_time ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListUpcoming(ctx context.Context, clinicID uuid.UUID, from time.Time, limit int) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN patients p ON a.patient_id = p.id
		WHERE p.clinic_id = $1
		AND a.start_time >= $2
		AND a.status = $3
		ORDER BY a.start_time ASC
		LIMIT $4`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, clinicID, from, model.AppointmentStatusScheduled, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming appointments: %w", err)
	}
	return appointments, nil
}
