package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/fisiomanager/clinic-api/internal/email"
	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/internal/repository"
	apperrors "github.com/fisiomanager/clinic-api/pkg/errors"
	"github.com/fisiomanager/clinic-api/pkg/metrics"
	"github.com/fisiomanager/clinic-api/pkg/payment"
)

// Processed payment ids are remembered long enough to absorb the provider's
// retry storm for one notification.
const (
	processedTTL     = 24 * time.Hour
	cleanupInterval  = 1 * time.Hour
	statusApproved   = "approved"
	notificationKind = "payment"
)

type Service struct {
	clinicRepo repository.ClinicRepository
	userRepo   repository.UserRepository
	provider   payment.Client
	emailSvc   *email.Service
	metrics    *metrics.Metrics

	baseURL   string
	processed *cache.Cache
	now       func() time.Time
}

func NewService(
	clinicRepo repository.ClinicRepository,
	userRepo repository.UserRepository,
	provider payment.Client,
	emailSvc *email.Service,
	m *metrics.Metrics,
	baseURL string,
) *Service {
	return &Service{
		clinicRepo: clinicRepo,
		userRepo:   userRepo,
		provider:   provider,
		emailSvc:   emailSvc,
		metrics:    m,
		baseURL:    baseURL,
		processed:  cache.New(processedTTL, cleanupInterval),
		now:        time.Now,
	}
}

func (s *Service) Plans() []model.Plan {
	plans := model.Plans()
	return []model.Plan{plans[model.PlanMonthly], plans[model.PlanAnnual]}
}

// Checkout creates a payment preference for the chosen plan and returns the
// provider redirect. The external reference ties the eventual webhook back
// to this clinic and plan.
func (s *Service) Checkout(ctx context.Context, claims *model.TokenClaims, planType model.PlanType) (*model.CheckoutResponse, error) {
	plan, ok := model.Plans()[planType]
	if !ok {
		return nil, apperrors.Validation("plan", fmt.Sprintf("unknown plan %q", planType))
	}

	ref := model.NewExternalReference(claims.ClinicID, plan.Type)

	pref, err := s.provider.CreatePreference(ctx, &payment.PreferenceRequest{
		Items: []payment.Item{{
			Title:     plan.Title,
			Quantity:  1,
			UnitPrice: plan.Price,
		}},
		Payer: payment.Payer{Email: claims.Email},
		BackURLs: payment.BackURLs{
			Success: s.baseURL + "/billing/success",
			Failure: s.baseURL + "/billing/failure",
			Pending: s.baseURL + "/billing/pending",
		},
		AutoReturn:        "approved",
		ExternalReference: ref.String(),
		NotificationURL:   s.baseURL + "/api/v1/billing/webhook",
	})
	if err != nil {
		return nil, apperrors.External("payment", err)
	}

	return &model.CheckoutResponse{
		PreferenceID:      pref.ID,
		InitPoint:         pref.InitPoint,
		ExternalReference: ref.String(),
	}, nil
}

// HandleWebhook reconciles one provider notification. The provider retries
// until it sees a 2xx, so any provider failure surfaces as an error and
// nothing is committed locally. Duplicate notifications for an already
// processed payment id are no-ops.
func (s *Service) HandleWebhook(ctx context.Context, notification *model.WebhookNotification) error {
	if s.metrics != nil {
		s.metrics.WebhooksReceived.Inc()
	}

	if notification.Type != notificationKind {
		return nil
	}
	paymentID := notification.Data.ID.String()
	if paymentID == "" {
		return apperrors.Validation("data.id", "missing payment id")
	}

	// Add is atomic: of two concurrent notifications for the same id,
	// exactly one claims it. The claim is released on provider or storage
	// failure so the provider's retry gets a fresh attempt.
	if err := s.processed.Add(paymentID, struct{}{}, cache.DefaultExpiration); err != nil {
		log.Debug().Str("payment_id", paymentID).Msg("duplicate payment notification")
		return nil
	}

	pmt, err := s.provider.GetPayment(ctx, paymentID)
	if err != nil {
		s.processed.Delete(paymentID)
		return apperrors.External("payment", err)
	}

	if pmt.Status != statusApproved {
		if s.metrics != nil {
			s.metrics.PaymentsReconciled.WithLabelValues(pmt.Status).Inc()
		}
		return nil
	}

	ref, err := model.ParseExternalReference(pmt.ExternalReference)
	if err != nil {
		return apperrors.Validation("external_reference", err.Error())
	}

	if err := s.extendAccess(ctx, ref); err != nil {
		s.processed.Delete(paymentID)
		return err
	}

	if s.metrics != nil {
		s.metrics.PaymentsReconciled.WithLabelValues(statusApproved).Inc()
	}

	s.sendReceipt(ctx, ref)
	return nil
}

// extendAccess pushes the clinic's expiry forward by the plan duration. An
// active pass is extended from its current expiry; a lapsed or absent pass
// restarts the clock from now.
func (s *Service) extendAccess(ctx context.Context, ref model.ExternalReference) error {
	clinic, err := s.clinicRepo.Get(ctx, ref.ClinicID)
	if err != nil {
		return err
	}

	plan := model.PlanFor(ref.PlanType)
	base := s.now()
	if clinic.AccessExpiresOn != nil && clinic.AccessExpiresOn.After(base) {
		base = *clinic.AccessExpiresOn
	}
	newExpiry := base.AddDate(0, 0, plan.DurationDays)

	if err := s.clinicRepo.UpdateAccessExpiry(ctx, clinic.ID, newExpiry); err != nil {
		return err
	}

	log.Info().
		Str("clinic_id", clinic.ID.String()).
		Str("plan", string(plan.Type)).
		Time("access_expires_on", newExpiry).
		Msg("access extended")
	return nil
}

func (s *Service) sendReceipt(ctx context.Context, ref model.ExternalReference) {
	if s.emailSvc == nil {
		return
	}
	users, err := s.userRepo.List(ctx, ref.ClinicID)
	if err != nil {
		log.Warn().Err(err).Msg("receipt email skipped")
		return
	}
	plan := model.PlanFor(ref.PlanType)
	for _, user := range users {
		if user.Role != model.RoleAdmin {
			continue
		}
		if err := s.emailSvc.SendPaymentReceipt(user.Email, plan); err != nil {
			log.Warn().Err(err).Str("email", user.Email).Msg("receipt email failed")
		}
	}
}
