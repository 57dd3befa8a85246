package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/internal/repository"
	pkgauth "github.com/fisiomanager/clinic-api/pkg/auth"
	apperrors "github.com/fisiomanager/clinic-api/pkg/errors"
	"github.com/fisiomanager/clinic-api/pkg/security"
)

type fakeClinicRepo struct {
	repository.ClinicRepository
	clinics   map[uuid.UUID]*model.Clinic
	users     *fakeUserRepo
	failAdmin bool
}

func (f *fakeClinicRepo) CreateWithAdmin(_ context.Context, clinic *model.Clinic, admin *model.User) error {
	if f.failAdmin {
		return errors.New("duplicate key value violates unique constraint")
	}
	f.clinics[clinic.ID] = clinic
	f.users.users[admin.ID] = admin
	return nil
}

type fakeUserRepo struct {
	repository.UserRepository
	users map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

type fakeTokenStore struct {
	revoked map[string]time.Time
}

func (f *fakeTokenStore) Revoke(_ context.Context, token string, until time.Time) error {
	f.revoked[token] = until
	return nil
}

func (f *fakeTokenStore) IsRevoked(_ context.Context, token string) (bool, error) {
	_, ok := f.revoked[token]
	return ok, nil
}

func setup(t *testing.T) (*Service, *fakeClinicRepo, *fakeUserRepo, *fakeTokenStore) {
	t.Helper()
	users := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	clinics := &fakeClinicRepo{clinics: make(map[uuid.UUID]*model.Clinic), users: users}
	tokens := &fakeTokenStore{revoked: make(map[string]time.Time)}

	svc := NewService(
		clinics,
		users,
		pkgauth.NewJWTService("test-secret", 1),
		security.NewBcryptHasher(4),
		tokens,
		nil,
	)
	return svc, clinics, users, tokens
}

func TestRegisterCreatesClinicAndAdmin(t *testing.T) {
	svc, clinics, users, _ := setup(t)

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Clínica Vida",
		Email:    "dono@clinica.test",
		Password: "supersegura",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	require.Len(t, clinics.clinics, 1)
	require.Len(t, users.users, 1)

	for _, clinic := range clinics.clinics {
		require.NotNil(t, clinic.AccessExpiresOn)
		assert.True(t, clinic.AccessExpiresOn.After(time.Now()))
	}
	for _, user := range users.users {
		assert.Equal(t, model.RoleAdmin, user.Role)
		assert.NotEqual(t, "supersegura", user.PasswordHash)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := setup(t)

	req := &model.RegisterRequest{Name: "Clínica Vida", Email: "dono@clinica.test", Password: "supersegura"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.Error(t, err)
}

func TestRegisterInsertFailureLeavesNothing(t *testing.T) {
	svc, clinics, users, _ := setup(t)
	clinics.failAdmin = true

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name: "Clínica Vida", Email: "dono@clinica.test", Password: "supersegura",
	})
	require.Error(t, err)
	assert.Empty(t, clinics.clinics)
	assert.Empty(t, users.users)
}

func TestLogin(t *testing.T) {
	svc, _, _, _ := setup(t)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name: "Clínica Vida", Email: "dono@clinica.test", Password: "supersegura",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email: "dono@clinica.test", Password: "supersegura",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email: "dono@clinica.test", Password: "errada",
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email: "ninguem@clinica.test", Password: "qualquer",
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, _, tokens := setup(t)

	claims := &model.TokenClaims{ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, svc.Logout(context.Background(), "token-abc", claims))

	revoked, err := tokens.IsRevoked(context.Background(), "token-abc")
	require.NoError(t, err)
	assert.True(t, revoked)
}
