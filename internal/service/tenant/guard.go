package tenant

import (
	"github.com/google/uuid"

	apperrors "github.com/fisiomanager/clinic-api/pkg/errors"
)

// Guard enforces tenant isolation at the service boundary. An entity whose
// resolved clinic differs from the caller's clinic is Forbidden, never
// NotFound: the row exists, the caller just does not own it.
type Guard struct{}

func NewGuard() *Guard {
	return &Guard{}
}

// Check compares the clinic that owns an entity with the caller's clinic.
func (g *Guard) Check(ownerClinicID, callerClinicID uuid.UUID) error {
	if ownerClinicID != callerClinicID {
		return apperrors.Forbidden()
	}
	return nil
}
