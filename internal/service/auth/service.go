package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fisiomanager/clinic-api/internal/email"
	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/internal/repository"
	"github.com/fisiomanager/clinic-api/pkg/auth"
	apperrors "github.com/fisiomanager/clinic-api/pkg/errors"
	"github.com/fisiomanager/clinic-api/pkg/security"
	"github.com/fisiomanager/clinic-api/pkg/tokenstore"
)

// TrialPeriod is the access granted to a freshly registered clinic before
// any payment.
const TrialPeriod = 7 * 24 * time.Hour

type Service struct {
	clinicRepo repository.ClinicRepository
	userRepo   repository.UserRepository
	jwtSvc     auth.JWTService
	hasher     security.PasswordHasher
	tokens     tokenstore.Store
	emailSvc   *email.Service
}

func NewService(
	clinicRepo repository.ClinicRepository,
	userRepo repository.UserRepository,
	jwtSvc auth.JWTService,
	hasher security.PasswordHasher,
	tokens tokenstore.Store,
	emailSvc *email.Service,
) *Service {
	return &Service{
		clinicRepo: clinicRepo,
		userRepo:   userRepo,
		jwtSvc:     jwtSvc,
		hasher:     hasher,
		tokens:     tokens,
		emailSvc:   emailSvc,
	}
}

// Register creates the clinic and its first admin user. The new clinic gets
// a trial access pass so the owner can evaluate before paying.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	if existing, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperrors.Conflict("email already registered")
	} else if err != nil && !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("password", "invalid password")
	}

	trialEnd := time.Now().Add(TrialPeriod)
	clinic := &model.Clinic{
		Base:            model.Base{ID: uuid.New()},
		Name:            req.Name,
		AccessExpiresOn: &trialEnd,
	}
	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		ClinicID:     clinic.ID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := s.clinicRepo.CreateWithAdmin(ctx, clinic, user); err != nil {
		return nil, fmt.Errorf("failed to register clinic: %w", err)
	}

	if s.emailSvc != nil {
		if err := s.emailSvc.SendWelcome(user.Email, user.Name); err != nil {
			log.Warn().Err(err).Str("email", user.Email).Msg("welcome email failed")
		}
	}

	return s.issueToken(user)
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized(nil)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(nil)
	}

	return s.issueToken(user)
}

// Logout revokes the token until its natural expiry.
func (s *Service) Logout(ctx context.Context, token string, claims *model.TokenClaims) error {
	if err := s.tokens.Revoke(ctx, token, claims.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *Service) issueToken(user *model.User) (*model.TokenResponse, error) {
	token, expiresAt, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}
