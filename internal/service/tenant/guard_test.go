package tenant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/fisiomanager/clinic-api/pkg/errors"
)

func TestGuardCheck(t *testing.T) {
	guard := NewGuard()
	clinicID := uuid.New()

	assert.NoError(t, guard.Check(clinicID, clinicID))

	err := guard.Check(clinicID, uuid.New())
	assert.True(t, apperrors.IsForbidden(err))
	// The message never reveals whether the entity exists.
	assert.Equal(t, "access denied", err.Error())
}
