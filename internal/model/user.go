package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleProfessional Role = "professional"
	RoleSecretary    Role = "secretary"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProfessional, RoleSecretary:
		return true
	}
	return false
}

// User represents a staff member of a clinic
type User struct {
	Base
	ClinicID     uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         Role       `db:"role" json:"role"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	DateOfBirth  *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	CPF          *string    `db:"cpf" json:"cpf,omitempty"`
	Address      *string    `db:"address" json:"address,omitempty"`
	Crefito      *string    `db:"crefito" json:"crefito,omitempty"`
}

type CreateStaffRequest struct {
	Name        string  `json:"name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Role        Role    `json:"role" binding:"required,oneof=admin professional secretary"`
	Password    string  `json:"password" binding:"omitempty,min=8"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,dateonly"`
	CPF         *string `json:"cpf"`
	Address     *string `json:"address"`
	Crefito     *string `json:"crefito"`
}

type UpdateStaffRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Role        *Role   `json:"role" binding:"omitempty,oneof=admin professional secretary"`
	Password    *string `json:"password" binding:"omitempty,min=8"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,dateonly"`
	CPF         *string `json:"cpf"`
	Address     *string `json:"address"`
	Crefito     *string `json:"crefito"`
}
