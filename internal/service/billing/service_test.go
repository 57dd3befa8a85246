package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/internal/repository"
	apperrors "github.com/fisiomanager/clinic-api/pkg/errors"
	"github.com/fisiomanager/clinic-api/pkg/payment"
)

type fakeClinicRepo struct {
	repository.ClinicRepository
	clinics map[uuid.UUID]*model.Clinic
}

func (f *fakeClinicRepo) Get(_ context.Context, id uuid.UUID) (*model.Clinic, error) {
	clinic, ok := f.clinics[id]
	if !ok {
		return nil, apperrors.NotFound("clinic", nil)
	}
	return clinic, nil
}

func (f *fakeClinicRepo) UpdateAccessExpiry(_ context.Context, id uuid.UUID, expiresOn time.Time) error {
	clinic, ok := f.clinics[id]
	if !ok {
		return apperrors.NotFound("clinic", nil)
	}
	clinic.AccessExpiresOn = &expiresOn
	return nil
}

type fakeProvider struct {
	payments    map[string]*payment.Payment
	preferences []*payment.PreferenceRequest
	lookups     int
	fail        bool
}

func (f *fakeProvider) CreatePreference(_ context.Context, pref *payment.PreferenceRequest) (*payment.Preference, error) {
	if f.fail {
		return nil, errors.New("provider down")
	}
	f.preferences = append(f.preferences, pref)
	return &payment.Preference{ID: "pref-1", InitPoint: "https://provider.test/checkout/pref-1"}, nil
}

func (f *fakeProvider) GetPayment(_ context.Context, paymentID string) (*payment.Payment, error) {
	f.lookups++
	if f.fail {
		return nil, errors.New("provider down")
	}
	pmt, ok := f.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("payment %s not found", paymentID)
	}
	return pmt, nil
}

func notification(paymentID string) *model.WebhookNotification {
	var n model.WebhookNotification
	payload := fmt.Sprintf(`{"type":"payment","data":{"id":%s}}`, paymentID)
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		panic(err)
	}
	return &n
}

func setup(t *testing.T) (*Service, *fakeClinicRepo, *fakeProvider, *model.Clinic, time.Time) {
	t.Helper()

	clinic := &model.Clinic{
		Base: model.Base{ID: uuid.New()},
		Name: "Clínica Vida",
	}
	clinics := &fakeClinicRepo{clinics: map[uuid.UUID]*model.Clinic{clinic.ID: clinic}}
	provider := &fakeProvider{payments: make(map[string]*payment.Payment)}

	svc := NewService(clinics, nil, provider, nil, nil, "https://app.test")

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, clinics, provider, clinic, now
}

func TestCheckoutBuildsPreference(t *testing.T) {
	svc, _, provider, clinic, _ := setup(t)
	claims := &model.TokenClaims{ClinicID: clinic.ID, Email: "dono@clinica.test"}

	checkout, err := svc.Checkout(context.Background(), claims, model.PlanMonthly)
	require.NoError(t, err)

	assert.Equal(t, "pref-1", checkout.PreferenceID)
	assert.Equal(t, "https://provider.test/checkout/pref-1", checkout.InitPoint)

	require.Len(t, provider.preferences, 1)
	pref := provider.preferences[0]
	require.Len(t, pref.Items, 1)
	assert.Equal(t, 59.90, pref.Items[0].UnitPrice)
	assert.Equal(t, "dono@clinica.test", pref.Payer.Email)
	assert.Equal(t, "https://app.test/api/v1/billing/webhook", pref.NotificationURL)

	ref, err := model.ParseExternalReference(pref.ExternalReference)
	require.NoError(t, err)
	assert.Equal(t, clinic.ID, ref.ClinicID)
	assert.Equal(t, model.PlanMonthly, ref.PlanType)
}

func TestCheckoutUnknownPlan(t *testing.T) {
	svc, _, _, clinic, _ := setup(t)
	claims := &model.TokenClaims{ClinicID: clinic.ID}

	_, err := svc.Checkout(context.Background(), claims, model.PlanType("semanal"))
	assert.True(t, apperrors.IsValidation(err))
}

func TestWebhookApprovedExtendsFromNow(t *testing.T) {
	svc, _, provider, clinic, now := setup(t)

	ref := model.NewExternalReference(clinic.ID, model.PlanMonthly)
	provider.payments["123"] = &payment.Payment{
		ID: 123, Status: "approved", ExternalReference: ref.String(),
	}

	require.NoError(t, svc.HandleWebhook(context.Background(), notification("123")))

	require.NotNil(t, clinic.AccessExpiresOn)
	assert.Equal(t, now.AddDate(0, 0, 30), *clinic.AccessExpiresOn)
}

func TestWebhookApprovedExtendsFromActiveExpiry(t *testing.T) {
	svc, _, provider, clinic, now := setup(t)

	current := now.AddDate(0, 0, 10)
	clinic.AccessExpiresOn = &current

	ref := model.NewExternalReference(clinic.ID, model.PlanAnnual)
	provider.payments["456"] = &payment.Payment{
		ID: 456, Status: "approved", ExternalReference: ref.String(),
	}

	require.NoError(t, svc.HandleWebhook(context.Background(), notification("456")))
	assert.Equal(t, current.AddDate(0, 0, 365), *clinic.AccessExpiresOn)
}

func TestWebhookApprovedLapsedPassRestartsClock(t *testing.T) {
	svc, _, provider, clinic, now := setup(t)

	lapsed := now.AddDate(0, 0, -20)
	clinic.AccessExpiresOn = &lapsed

	ref := model.NewExternalReference(clinic.ID, model.PlanMonthly)
	provider.payments["789"] = &payment.Payment{
		ID: 789, Status: "approved", ExternalReference: ref.String(),
	}

	require.NoError(t, svc.HandleWebhook(context.Background(), notification("789")))
	assert.Equal(t, now.AddDate(0, 0, 30), *clinic.AccessExpiresOn)
}

func TestWebhookDuplicateIsNoOp(t *testing.T) {
	svc, _, provider, clinic, now := setup(t)

	ref := model.NewExternalReference(clinic.ID, model.PlanMonthly)
	provider.payments["123"] = &payment.Payment{
		ID: 123, Status: "approved", ExternalReference: ref.String(),
	}

	require.NoError(t, svc.HandleWebhook(context.Background(), notification("123")))
	require.NoError(t, svc.HandleWebhook(context.Background(), notification("123")))

	assert.Equal(t, 1, provider.lookups)
	assert.Equal(t, now.AddDate(0, 0, 30), *clinic.AccessExpiresOn)
}

func TestWebhookConcurrentDuplicatesExtendOnce(t *testing.T) {
	svc, _, provider, clinic, now := setup(t)

	ref := model.NewExternalReference(clinic.ID, model.PlanMonthly)
	provider.payments["123"] = &payment.Payment{
		ID: 123, Status: "approved", ExternalReference: ref.String(),
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.HandleWebhook(context.Background(), notification("123")))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, provider.lookups)
	assert.Equal(t, now.AddDate(0, 0, 30), *clinic.AccessExpiresOn)
}

func TestWebhookNonApprovedIgnored(t *testing.T) {
	svc, _, provider, clinic, _ := setup(t)

	ref := model.NewExternalReference(clinic.ID, model.PlanMonthly)
	provider.payments["123"] = &payment.Payment{
		ID: 123, Status: "pending", ExternalReference: ref.String(),
	}

	require.NoError(t, svc.HandleWebhook(context.Background(), notification("123")))
	assert.Nil(t, clinic.AccessExpiresOn)
}

func TestWebhookNonPaymentTypeIgnored(t *testing.T) {
	svc, _, provider, _, _ := setup(t)

	n := &model.WebhookNotification{Type: "merchant_order"}
	require.NoError(t, svc.HandleWebhook(context.Background(), n))
	assert.Zero(t, provider.lookups)
}

func TestWebhookProviderFailureSurfaces(t *testing.T) {
	svc, _, provider, clinic, _ := setup(t)
	provider.fail = true

	err := svc.HandleWebhook(context.Background(), notification("123"))
	require.Error(t, err)
	assert.Nil(t, clinic.AccessExpiresOn)

	// The id was not marked processed: the provider's retry gets a fresh
	// attempt.
	provider.fail = false
	ref := model.NewExternalReference(clinic.ID, model.PlanMonthly)
	provider.payments["123"] = &payment.Payment{
		ID: 123, Status: "approved", ExternalReference: ref.String(),
	}
	require.NoError(t, svc.HandleWebhook(context.Background(), notification("123")))
	assert.NotNil(t, clinic.AccessExpiresOn)
}

func TestWebhookMalformedReference(t *testing.T) {
	svc, _, provider, _, _ := setup(t)

	provider.payments["123"] = &payment.Payment{
		ID: 123, Status: "approved", ExternalReference: "order_42",
	}

	err := svc.HandleWebhook(context.Background(), notification("123"))
	assert.True(t, apperrors.IsValidation(err))
}
