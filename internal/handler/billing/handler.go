package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fisiomanager/clinic-api/internal/handler"
	"github.com/fisiomanager/clinic-api/internal/middleware"
	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/internal/service/billing"
)

type Handler struct {
	service *billing.Service
	authMw  *middleware.AuthMiddleware
}

func NewHandler(service *billing.Service, authMw *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, authMw: authMw}
}

// RegisterRoutes mounts the billing endpoints. Checkout requires auth but
// deliberately not active access: a lapsed clinic must be able to pay. The
// webhook is called by the provider and carries no token at all.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/billing")
	{
		group.GET("/plans", h.Plans)
		group.POST("/checkout/:plan", h.authMw.Authenticate(), h.Checkout)
		group.POST("/webhook", h.Webhook)
	}
}

func (h *Handler) Plans(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.service.Plans()))
}

func (h *Handler) Checkout(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}

	planType := model.PlanType(c.Param("plan"))
	checkout, err := h.service.Checkout(c.Request.Context(), claims, planType)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(checkout))
}

// Webhook acknowledges the provider notification with 200 only when it was
// fully reconciled; any failure returns a non-2xx so the provider retries.
func (h *Handler) Webhook(c *gin.Context) {
	var notification model.WebhookNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), &notification); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
