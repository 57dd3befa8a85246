package staff

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/internal/repository"
	"github.com/fisiomanager/clinic-api/internal/service/tenant"
	apperrors "github.com/fisiomanager/clinic-api/pkg/errors"
	"github.com/fisiomanager/clinic-api/pkg/security"
)

type fakeUserRepo struct {
	repository.UserRepository
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return apperrors.NotFound("user", nil)
	}
	delete(f.users, id)
	return nil
}

func setup(t *testing.T) (*Service, *fakeUserRepo, *model.TokenClaims) {
	t.Helper()
	repo := newFakeUserRepo()
	svc := NewService(repo, security.NewBcryptHasher(4), tenant.NewGuard())
	claims := &model.TokenClaims{
		UserID:   uuid.New(),
		ClinicID: uuid.New(),
		Role:     model.RoleAdmin,
	}
	return svc, repo, claims
}

func TestCreateAssignsDefaultPassword(t *testing.T) {
	svc, repo, claims := setup(t)

	created, err := svc.Create(context.Background(), claims, &model.CreateStaffRequest{
		Name:  "Ana",
		Email: "ana@clinica.test",
		Role:  model.RoleSecretary,
	})
	require.NoError(t, err)

	assert.Equal(t, claims.ClinicID, created.ClinicID)
	hasher := security.NewBcryptHasher(4)
	assert.NoError(t, hasher.Compare(created.PasswordHash, DefaultPassword))
	assert.Len(t, repo.users, 1)
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _, claims := setup(t)

	req := &model.CreateStaffRequest{Name: "Ana", Email: "ana@clinica.test", Role: model.RoleSecretary}
	_, err := svc.Create(context.Background(), claims, req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), claims, req)
	assert.Error(t, err)
}

func TestDeleteSelfRejected(t *testing.T) {
	svc, _, claims := setup(t)

	err := svc.Delete(context.Background(), claims, claims.UserID)
	assert.True(t, apperrors.IsValidation(err))
}

func TestDeleteForeignStaffForbidden(t *testing.T) {
	svc, repo, claims := setup(t)

	other := &model.User{
		Base:     model.Base{ID: uuid.New()},
		ClinicID: uuid.New(),
		Email:    "outra@clinica.test",
	}
	repo.users[other.ID] = other

	err := svc.Delete(context.Background(), claims, other.ID)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Len(t, repo.users, 1)
}
