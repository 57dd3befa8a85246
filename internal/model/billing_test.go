package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalReferenceRoundTrip(t *testing.T) {
	ref := NewExternalReference(uuid.New(), PlanAnnual)

	parsed, err := ParseExternalReference(ref.String())
	require.NoError(t, err)

	assert.Equal(t, ref.ClinicID, parsed.ClinicID)
	assert.Equal(t, ref.PlanType, parsed.PlanType)
	assert.Equal(t, ref.Nonce, parsed.Nonce)
}

func TestParseExternalReferenceErrors(t *testing.T) {
	cases := []string{
		"",
		"order_42",
		"clinic_abc_plan_mensal_def",
		"clinic_" + uuid.NewString() + "_plan_mensal_not-a-uuid",
		"patient_" + uuid.NewString() + "_plan_mensal_" + uuid.NewString(),
		"clinic_" + uuid.NewString() + "_tier_mensal_" + uuid.NewString(),
	}
	for _, raw := range cases {
		_, err := ParseExternalReference(raw)
		assert.Error(t, err, "expected %q to be rejected", raw)
	}
}

func TestPlanForFallsBackToMonthly(t *testing.T) {
	assert.Equal(t, PlanMonthly, PlanFor(PlanType("semanal")).Type)
	assert.Equal(t, PlanAnnual, PlanFor(PlanAnnual).Type)
	assert.Equal(t, 365, PlanFor(PlanAnnual).DurationDays)
}
