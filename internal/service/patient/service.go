package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/internal/repository"
	"github.com/fisiomanager/clinic-api/internal/service/tenant"
	apperrors "github.com/fisiomanager/clinic-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type Service struct {
	repo  repository.PatientRepository
	guard *tenant.Guard
}

func NewService(repo repository.PatientRepository, guard *tenant.Guard) *Service {
	return &Service{repo: repo, guard: guard}
}

func (s *Service) Create(ctx context.Context, claims *model.TokenClaims, req *model.CreatePatientRequest) (*model.Patient, error) {
	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return nil, apperrors.Validation("date_of_birth", "must be YYYY-MM-DD")
	}

	patient := &model.Patient{
		Base:        model.Base{ID: uuid.New()},
		ClinicID:    claims.ClinicID,
		UserID:      claims.UserID,
		FullName:    req.FullName,
		DateOfBirth: dob,
		Gender:      req.Gender,
		Phone:       req.Phone,
		Specialty:   req.Specialty,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(patient.ClinicID, claims.ClinicID); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) Update(ctx context.Context, claims *model.TokenClaims, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.Get(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		patient.FullName = *req.FullName
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(dateLayout, *req.DateOfBirth)
		if err != nil {
			return nil, apperrors.Validation("date_of_birth", "must be YYYY-MM-DD")
		}
		patient.DateOfBirth = dob
	}
	if req.Gender != nil {
		patient.Gender = req.Gender
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Specialty != nil {
		patient.Specialty = req.Specialty
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// Delete removes the patient and every dependent row in one transaction.
func (s *Service) Delete(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) error {
	if _, err := s.Get(ctx, claims, id); err != nil {
		return err
	}
	return s.repo.DeleteCascade(ctx, id)
}

// List returns one page of patients with the aggregates the list view
// shows. The repository computes them alongside the page itself.
func (s *Service) List(ctx context.Context, claims *model.TokenClaims, filters *model.PatientFilters) (*model.PatientPage, error) {
	items, total, err := s.repo.List(ctx, claims.ClinicID, filters)
	if err != nil {
		return nil, err
	}

	return &model.PatientPage{
		Items:    items,
		Total:    total,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	}, nil
}

func (s *Service) ListOptions(ctx context.Context, claims *model.TokenClaims) ([]*model.PatientOption, error) {
	return s.repo.ListOptions(ctx, claims.ClinicID)
}
