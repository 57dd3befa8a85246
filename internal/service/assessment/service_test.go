package assessment

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/internal/repository"
	"github.com/fisiomanager/clinic-api/internal/service/tenant"
	apperrors "github.com/fisiomanager/clinic-api/pkg/errors"
	"github.com/fisiomanager/clinic-api/pkg/media"
)

type fakeAssessmentRepo struct {
	repository.AssessmentRepository
	assessments map[uuid.UUID]*model.Assessment
	files       map[uuid.UUID][]*model.UploadedFile
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{
		assessments: make(map[uuid.UUID]*model.Assessment),
		files:       make(map[uuid.UUID][]*model.UploadedFile),
	}
}

func (f *fakeAssessmentRepo) CreateWithFiles(_ context.Context, assessment *model.Assessment, files []*model.UploadedFile) error {
	f.assessments[assessment.ID] = assessment
	f.files[assessment.ID] = files
	return nil
}

type fakePatientRepo struct {
	repository.PatientRepository
	patients map[uuid.UUID]*model.Patient
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, ok := f.patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient", nil)
	}
	return patient, nil
}

type fakeMedia struct {
	uploads []string
	fail    bool
}

func (f *fakeMedia) Upload(_ context.Context, filename string, content io.Reader) (*media.UploadResult, error) {
	if f.fail {
		return nil, errors.New("media store down")
	}
	f.uploads = append(f.uploads, filename)
	return &media.UploadResult{
		PublicID:     "uploads/" + filename,
		SecureURL:    "https://media.test/uploads/" + filename,
		ResourceType: "image",
	}, nil
}

func setup(t *testing.T) (*Service, *fakeAssessmentRepo, *fakeMedia, *model.TokenClaims, *model.Patient) {
	t.Helper()

	clinicID := uuid.New()
	patient := &model.Patient{Base: model.Base{ID: uuid.New()}, ClinicID: clinicID}
	claims := &model.TokenClaims{UserID: uuid.New(), ClinicID: clinicID}

	repo := newFakeAssessmentRepo()
	patients := &fakePatientRepo{patients: map[uuid.UUID]*model.Patient{patient.ID: patient}}
	store := &fakeMedia{}
	svc := NewService(repo, patients, tenant.NewGuard(), store, nil)
	return svc, repo, store, claims, patient
}

func sptr(v string) *string { return &v }

func TestCreateUploadsBeforePersisting(t *testing.T) {
	svc, repo, store, claims, patient := setup(t)

	created, err := svc.Create(context.Background(), claims, patient.ID,
		&model.CreateAssessmentRequest{MainComplaint: sptr("dor lombar")},
		[]FileUpload{
			{Filename: "raio-x.png", Content: strings.NewReader("bytes")},
			{Filename: "laudo.pdf", Content: strings.NewReader("bytes")},
		})
	require.NoError(t, err)

	assert.Equal(t, []string{"raio-x.png", "laudo.pdf"}, store.uploads)
	require.Len(t, created.Files, 2)
	assert.Equal(t, "uploads/raio-x.png", created.Files[0].PublicID)
	assert.Len(t, repo.files[created.ID], 2)
}

func TestCreateUploadFailurePersistsNothing(t *testing.T) {
	svc, repo, store, claims, patient := setup(t)
	store.fail = true

	_, err := svc.Create(context.Background(), claims, patient.ID,
		&model.CreateAssessmentRequest{},
		[]FileUpload{{Filename: "raio-x.png", Content: strings.NewReader("bytes")}})

	require.Error(t, err)
	assert.Empty(t, repo.assessments)
}

func TestCreateForeignPatientForbidden(t *testing.T) {
	svc, repo, store, _, patient := setup(t)
	intruder := &model.TokenClaims{UserID: uuid.New(), ClinicID: uuid.New()}

	_, err := svc.Create(context.Background(), intruder, patient.ID, &model.CreateAssessmentRequest{}, nil)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Empty(t, repo.assessments)
	assert.Empty(t, store.uploads)
}
