package record

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fisiomanager/clinic-api/internal/handler"
	"github.com/fisiomanager/clinic-api/internal/service/assessment"
	"github.com/fisiomanager/clinic-api/internal/service/record"
)

// Handler serves the flat lookups for records and assessments; creation and
// per-patient listing live under the patient routes.
type Handler struct {
	recordSvc     *record.Service
	assessmentSvc *assessment.Service
}

func NewHandler(recordSvc *record.Service, assessmentSvc *assessment.Service) *Handler {
	return &Handler{recordSvc: recordSvc, assessmentSvc: assessmentSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/records/:id", h.GetRecord)
	r.GET("/assessments/:id", h.GetAssessment)
}

func (h *Handler) GetRecord(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	found, err := h.recordSvc.Get(c.Request.Context(), claims, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) GetAssessment(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	found, err := h.assessmentSvc.Get(c.Request.Context(), claims, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}
