package staff

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/internal/repository"
	"github.com/fisiomanager/clinic-api/internal/service/tenant"
	apperrors "github.com/fisiomanager/clinic-api/pkg/errors"
	"github.com/fisiomanager/clinic-api/pkg/security"
)

// DefaultPassword is assigned when an admin creates a staff account without
// choosing one. The new member is expected to change it.
const DefaultPassword = "fisiomanager123"

const dateLayout = "2006-01-02"

type Service struct {
	repo   repository.UserRepository
	hasher security.PasswordHasher
	guard  *tenant.Guard
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher, guard *tenant.Guard) *Service {
	return &Service{repo: repo, hasher: hasher, guard: guard}
}

func (s *Service) Create(ctx context.Context, claims *model.TokenClaims, req *model.CreateStaffRequest) (*model.User, error) {
	if existing, err := s.repo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperrors.Conflict("email already registered")
	} else if err != nil && !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	password := req.Password
	if password == "" {
		password = DefaultPassword
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.Validation("password", "invalid password")
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		ClinicID:     claims.ClinicID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Phone:        req.Phone,
		CPF:          req.CPF,
		Address:      req.Address,
		Crefito:      req.Crefito,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(dateLayout, *req.DateOfBirth)
		if err != nil {
			return nil, apperrors.Validation("date_of_birth", "must be YYYY-MM-DD")
		}
		user.DateOfBirth = &dob
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(user.ClinicID, claims.ClinicID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Update(ctx context.Context, claims *model.TokenClaims, id uuid.UUID, req *model.UpdateStaffRequest) (*model.User, error) {
	user, err := s.Get(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, apperrors.Validation("password", "invalid password")
		}
		user.PasswordHash = hash
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(dateLayout, *req.DateOfBirth)
		if err != nil {
			return nil, apperrors.Validation("date_of_birth", "must be YYYY-MM-DD")
		}
		user.DateOfBirth = &dob
	}
	if req.CPF != nil {
		user.CPF = req.CPF
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.Crefito != nil {
		user.Crefito = req.Crefito
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a staff member. Admins cannot delete their own account.
func (s *Service) Delete(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) error {
	if id == claims.UserID {
		return apperrors.Validation("id", "cannot delete your own account")
	}
	if _, err := s.Get(ctx, claims, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, claims *model.TokenClaims) ([]*model.User, error) {
	return s.repo.List(ctx, claims.ClinicID)
}
