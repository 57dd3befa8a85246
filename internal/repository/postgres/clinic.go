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

func insertClinic(ctx context.Context, ex sqlx.ExtContext, clinic *model.Clinic) error {
	query := `
		INSERT INTO clinics (id, name, access_expires_on, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	clinic.CreatedAt = time.Now()
	clinic.UpdatedAt = time.Now()

	_, err := ex.ExecContext(ctx, query,
		clinic.ID,
		clinic.Name,
		clinic.AccessExpiresOn,
		clinic.CreatedAt,
		clinic.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create clinic: %w", err)
	}
	return nil
}

func (r *clinicRepository) Create(ctx context.Context, clinic *model.Clinic) error {
	return insertClinic(ctx, r.db, clinic)
}

// CreateWithAdmin commits the clinic row and its admin user together so a
// registration either fully succeeds or leaves nothing behind.
func (r *clinicRepository) CreateWithAdmin(ctx context.Context, clinic *model.Clinic, admin *model.User) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertClinic(ctx, tx, clinic); err != nil {
			return err
		}
		return insertUser(ctx, tx, admin)
	})
}

func (r *clinicRepository) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	query := `
		SELECT id, name, access_expires_on, created_at, updated_at
		FROM clinics
		WHERE id = $1
	`
	var clinic model.Clinic
	if err := r.db.GetContext(ctx, &clinic, query, id); err != nil {
		return nil, notFoundOr(err, "clinic")
	}
	return &clinic, nil
}

func (r *clinicRepository) UpdateAccessExpiry(ctx context.Context, id uuid.UUID, expiresOn time.Time) error {
	query := `
		UPDATE clinics
		SET access_expires_on = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, expiresOn, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update access expiry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("clinic", nil)
	}
	return nil
}
