package assessment

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/internal/repository"
	"github.com/fisiomanager/clinic-api/internal/service/tenant"
	apperrors "github.com/fisiomanager/clinic-api/pkg/errors"
	"github.com/fisiomanager/clinic-api/pkg/media"
	"github.com/fisiomanager/clinic-api/pkg/metrics"
)

// FileUpload is one attachment from the multipart form, not yet uploaded.
type FileUpload struct {
	Filename string
	Content  io.Reader
}

type Service struct {
	repo        repository.AssessmentRepository
	patientRepo repository.PatientRepository
	guard       *tenant.Guard
	media       media.Client
	metrics     *metrics.Metrics
}

func NewService(repo repository.AssessmentRepository, patientRepo repository.PatientRepository, guard *tenant.Guard, mediaClient media.Client, m *metrics.Metrics) *Service {
	return &Service{repo: repo, patientRepo: patientRepo, guard: guard, media: mediaClient, metrics: m}
}

// Create uploads attachments to the media store first, then persists the
// assessment and its file rows in one transaction. A failed upload aborts
// before anything is written locally; a failed transaction leaves orphans in
// the media store, which is the cheaper side to leak.
func (s *Service) Create(ctx context.Context, claims *model.TokenClaims, patientID uuid.UUID, req *model.CreateAssessmentRequest, uploads []FileUpload) (*model.Assessment, error) {
	if err := s.checkPatient(ctx, claims, patientID); err != nil {
		return nil, err
	}

	files := make([]*model.UploadedFile, 0, len(uploads))
	for _, upload := range uploads {
		result, err := s.media.Upload(ctx, upload.Filename, upload.Content)
		if err != nil {
			if s.metrics != nil {
				s.metrics.UploadsTotal.WithLabelValues("error").Inc()
			}
			return nil, apperrors.External("media", err)
		}
		if s.metrics != nil {
			s.metrics.UploadsTotal.WithLabelValues("ok").Inc()
		}
		files = append(files, &model.UploadedFile{
			ID:           uuid.New(),
			PublicID:     result.PublicID,
			SecureURL:    result.SecureURL,
			ResourceType: result.ResourceType,
		})
	}

	assessment := &model.Assessment{
		Base:      model.Base{ID: uuid.New()},
		ClinicID:  claims.ClinicID,
		PatientID: patientID,

		MainComplaint:           req.MainComplaint,
		HistoryOfPresentIllness: req.HistoryOfPresentIllness,
		PastMedicalHistory:      req.PastMedicalHistory,
		Medications:             req.Medications,
		SocialHistory:           req.SocialHistory,
		InspectionNotes:         req.InspectionNotes,
		PalpationNotes:          req.PalpationNotes,
		MobilityAssessment:      req.MobilityAssessment,
		StrengthAssessment:      req.StrengthAssessment,
		NeuroAssessment:         req.NeuroAssessment,
		FunctionalAssessment:    req.FunctionalAssessment,
		Diagnosis:               req.Diagnosis,
		Goals:                   req.Goals,
		TreatmentPlan:           req.TreatmentPlan,
	}

	if err := s.repo.CreateWithFiles(ctx, assessment, files); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}
	assessment.Files = files
	return assessment, nil
}

func (s *Service) Get(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) (*model.Assessment, error) {
	assessment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(assessment.ClinicID, claims.ClinicID); err != nil {
		return nil, err
	}

	files, err := s.repo.ListFiles(ctx, id)
	if err != nil {
		return nil, err
	}
	assessment.Files = files
	return assessment, nil
}

func (s *Service) ListByPatient(ctx context.Context, claims *model.TokenClaims, patientID uuid.UUID) ([]*model.Assessment, error) {
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
