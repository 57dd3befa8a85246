package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type PlanType string

const (
	PlanMonthly PlanType = "mensal"
	PlanAnnual  PlanType = "anual"
)

type Plan struct {
	Type         PlanType `json:"type"`
	Title        string   `json:"title"`
	Price        float64  `json:"price"`
	DurationDays int      `json:"duration_days"`
}

// Plans returns the access passes a clinic can buy. Unknown plan types fall
// back to the monthly pass, matching the original checkout behavior.
func Plans() map[PlanType]Plan {
	return map[PlanType]Plan{
		PlanMonthly: {Type: PlanMonthly, Title: "Acesso Mensal FisioManager", Price: 59.90, DurationDays: 30},
		PlanAnnual:  {Type: PlanAnnual, Title: "Acesso Anual FisioManager", Price: 599.00, DurationDays: 365},
	}
}

func PlanFor(planType PlanType) Plan {
	if plan, ok := Plans()[planType]; ok {
		return plan
	}
	return Plans()[PlanMonthly]
}

// ExternalReference is the opaque string echoed back by the payment
// provider, correlating a notification with the clinic and plan that
// initiated it. Wire format: clinic_<clinicID>_plan_<planType>_<nonce>.
type ExternalReference struct {
	ClinicID uuid.UUID
	PlanType PlanType
	Nonce    uuid.UUID
}

func NewExternalReference(clinicID uuid.UUID, planType PlanType) ExternalReference {
	return ExternalReference{ClinicID: clinicID, PlanType: planType, Nonce: uuid.New()}
}

func (r ExternalReference) String() string {
	return fmt.Sprintf("clinic_%s_plan_%s_%s", r.ClinicID, r.PlanType, r.Nonce)
}

// ParseExternalReference parses the wire format back. UUIDs contain no
// underscores, so a plain split is unambiguous.
func ParseExternalReference(ref string) (ExternalReference, error) {
	parts := strings.Split(ref, "_")
	if len(parts) != 5 || parts[0] != "clinic" || parts[2] != "plan" {
		return ExternalReference{}, fmt.Errorf("malformed external reference %q", ref)
	}

	clinicID, err := uuid.Parse(parts[1])
	if err != nil {
		return ExternalReference{}, fmt.Errorf("invalid clinic id in external reference: %w", err)
	}
	nonce, err := uuid.Parse(parts[4])
	if err != nil {
		return ExternalReference{}, fmt.Errorf("invalid nonce in external reference: %w", err)
	}

	return ExternalReference{
		ClinicID: clinicID,
		PlanType: PlanType(parts[3]),
		Nonce:    nonce,
	}, nil
}

// WebhookNotification is the provider's asynchronous notification payload.
// The payment id arrives as a number or a string depending on the provider
// revision, so it is decoded as json.Number.
type WebhookNotification struct {
	Type string `json:"type"`
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

type CheckoutResponse struct {
	PreferenceID      string `json:"preference_id"`
	InitPoint         string `json:"init_point"`
	ExternalReference string `json:"external_reference"`
}
