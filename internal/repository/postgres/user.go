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

const userColumns = `
	id, clinic_id, name, email, password_hash, role, phone,
	date_of_birth, cpf, address, crefito, created_at, updated_at
`

func insertUser(ctx context.Context, ex sqlx.ExtContext, user *model.User) error {
	query := `
		INSERT INTO users (
			id, clinic_id, name, email, password_hash, role, phone,
			date_of_birth, cpf, address, crefito, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := ex.ExecContext(ctx, query,
		user.ID,
		user.ClinicID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Phone,
		user.DateOfBirth,
		user.CPF,
		user.Address,
		user.Crefito,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return insertUser(ctx, r.db, user)
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, password_hash = $3, role = $4, phone = $5,
			date_of_birth = $6, cpf = $7, address = $8, crefito = $9, updated_at = $10
		WHERE id = $11
	`
	user.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Phone,
		user.DateOfBirth,
		user.CPF,
		user.Address,
		user.Crefito,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("user", nil)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("user", nil)
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE clinic_id = $1 ORDER BY name ASC`
	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
