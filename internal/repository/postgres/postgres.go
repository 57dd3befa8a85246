package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/fisiomanager/clinic-api/internal/repository"
)

type clinicRepository struct {
	db *sqlx.DB
}

type userRepository struct {
	db *sqlx.DB
}

type patientRepository struct {
	db *sqlx.DB
}

type appointmentRepository struct {
	db *sqlx.DB
}

type recordRepository struct {
	db *sqlx.DB
}

type assessmentRepository struct {
	db *sqlx.DB
}

func NewClinicRepository(db *sqlx.DB) repository.ClinicRepository {
	return &clinicRepository{db: db}
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewRecordRepository(db *sqlx.DB) repository.RecordRepository {
	return &recordRepository{db: db}
}

func NewAssessmentRepository(db *sqlx.DB) repository.AssessmentRepository {
	return &assessmentRepository{db: db}
}
