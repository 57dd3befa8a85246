package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fisiomanager/clinic-api/internal/repository"
)

var timeNow = time.Now

type AccessMiddleware struct {
	clinicRepo repository.ClinicRepository
}

func NewAccessMiddleware(clinicRepo repository.ClinicRepository) *AccessMiddleware {
	return &AccessMiddleware{clinicRepo: clinicRepo}
}

// RequireActiveAccess rejects requests from clinics whose access pass has
// lapsed. Billing and auth routes are mounted outside this middleware so a
// lapsed clinic can still pay.
func (m *AccessMiddleware) RequireActiveAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "unauthorized",
			})
			return
		}

		clinic, err := m.clinicRepo.Get(c.Request.Context(), claims.ClinicID)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		if !clinic.HasActiveAccess(timeNow()) {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, ErrorResponse{
				Code:    http.StatusPaymentRequired,
				Message: "access pass expired",
			})
			return
		}
		c.Next()
	}
}
