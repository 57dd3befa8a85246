package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fisiomanager/clinic-api/internal/model"
)

// All repository interfaces in one file.
//
// Single reads resolve the entity's clinic id through its ownership chain
// (appointments, records, assessments and files join through patients) so the
// service layer can enforce tenant isolation. List queries never rely on a
// caller-supplied id alone: they take the clinic id and filter at the query
// boundary.
type (
	ClinicRepository interface {
		Create(ctx context.Context, clinic *model.Clinic) error
		// CreateWithAdmin persists the clinic and its first admin user in
		// one transaction: a failed user insert never leaves an orphan
		// clinic holding a trial pass.
		CreateWithAdmin(ctx context.Context, clinic *model.Clinic, admin *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
		UpdateAccessExpiry(ctx context.Context, id uuid.UUID, expiresOn time.Time) error
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		// DeleteCascade removes the patient and every dependent row
		// (appointments, records, assessments, files) in one transaction.
		DeleteCascade(ctx context.Context, id uuid.UUID) error
		// List returns one page of summaries with the appointment count
		// and latest diagnosis aggregated in the same query.
		List(ctx context.Context, clinicID uuid.UUID, filters *model.PatientFilters) ([]*model.PatientSummary, int, error)
		ListOptions(ctx context.Context, clinicID uuid.UUID) ([]*model.PatientOption, error)
		ListRecent(ctx context.Context, clinicID uuid.UUID, limit int) ([]*model.Patient, error)
		ListBirthdays(ctx context.Context, clinicID uuid.UUID, month time.Month) ([]*model.Patient, error)
	}

	AppointmentRepository interface {
		// CreateBatch persists all rows in a single transaction: either the
		// whole series is committed or none of it.
		CreateBatch(ctx context.Context, appointments []*model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		ListUpcoming(ctx context.Context, clinicID uuid.UUID, from time.Time, limit int) ([]*model.Appointment, error)
	}

	RecordRepository interface {
		Create(ctx context.Context, record *model.ElectronicRecord) error
		Get(ctx context.Context, id uuid.UUID) (*model.ElectronicRecord, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.ElectronicRecord, error)
	}

	AssessmentRepository interface {
		// CreateWithFiles persists the assessment and its file rows in one
		// transaction. Files were already uploaded by the time this runs.
		CreateWithFiles(ctx context.Context, assessment *model.Assessment, files []*model.UploadedFile) error
		Get(ctx context.Context, id uuid.UUID) (*model.Assessment, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Assessment, error)
		ListFiles(ctx context.Context, assessmentID uuid.UUID) ([]*model.UploadedFile, error)
	}
)
