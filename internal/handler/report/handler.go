package report

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fisiomanager/clinic-api/internal/handler"
	"github.com/fisiomanager/clinic-api/internal/service/report"
)

type Handler struct {
	service *report.Service
}

func NewHandler(service *report.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	{
		reports.GET("/financial", h.Financial)
		reports.GET("/status-summary", h.StatusSummary)
		reports.GET("/dashboard", h.Dashboard)
	}
}

func (h *Handler) Financial(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}

	summary, err := h.service.Financial(c.Request.Context(), claims, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(summary))
}

func (h *Handler) StatusSummary(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}

	summary, err := h.service.StatusSummary(c.Request.Context(), claims)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(summary))
}

func (h *Handler) Dashboard(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), claims)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(dashboard))
}
