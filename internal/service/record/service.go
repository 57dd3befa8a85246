package record

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/internal/repository"
	"github.com/fisiomanager/clinic-api/internal/service/tenant"
)

type Service struct {
	repo        repository.RecordRepository
	patientRepo repository.PatientRepository
	guard       *tenant.Guard
}

func NewService(repo repository.RecordRepository, patientRepo repository.PatientRepository, guard *tenant.Guard) *Service {
	return &Service{repo: repo, patientRepo: patientRepo, guard: guard}
}

func (s *Service) Create(ctx context.Context, claims *model.TokenClaims, patientID uuid.UUID, req *model.CreateRecordRequest) (*model.ElectronicRecord, error) {
	if err := s.checkPatient(ctx, claims, patientID); err != nil {
		return nil, err
	}

	record := &model.ElectronicRecord{
		Base:             model.Base{ID: uuid.New()},
		ClinicID:         claims.ClinicID,
		PatientID:        patientID,
		RecordDate:       time.Now(),
		MedicalDiagnosis: req.MedicalDiagnosis,
		SubjectiveNotes:  req.SubjectiveNotes,
		ObjectiveNotes:   req.ObjectiveNotes,
		Assessment:       req.Assessment,
		Plan:             req.Plan,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}
	return record, nil
}

func (s *Service) Get(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) (*model.ElectronicRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(record.ClinicID, claims.ClinicID); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) ListByPatient(ctx context.Context, claims *model.TokenClaims, patientID uuid.UUID) ([]*model.ElectronicRecord, error) {
	if err := s.checkPatient(ctx, claims, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) checkPatient(ctx context.Context, claims *model.TokenClaims, patientID uuid.UUID) error {
	patient, err := s.patientRepo.Get(ctx, patientID)
	if err != nil {
		return err
	}
	return s.guard.Check(patient.ClinicID, claims.ClinicID)
}
