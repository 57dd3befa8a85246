package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fisiomanager/clinic-api/internal/handler"
	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/internal/service/assessment"
	"github.com/fisiomanager/clinic-api/internal/service/patient"
	"github.com/fisiomanager/clinic-api/internal/service/record"
)

type Handler struct {
	service       *patient.Service
	recordSvc     *record.Service
	assessmentSvc *assessment.Service
}

func NewHandler(service *patient.Service, recordSvc *record.Service, assessmentSvc *assessment.Service) *Handler {
	return &Handler{service: service, recordSvc: recordSvc, assessmentSvc: assessmentSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/options", h.ListOptions)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)

		patients.POST("/:id/records", h.CreateRecord)
		patients.GET("/:id/records", h.ListRecords)

		patients.POST("/:id/assessments", h.CreateAssessment)
		patients.GET("/:id/assessments", h.ListAssessments)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}

	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), claims, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) ListPatients(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}

	var filters model.PatientFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	page, err := h.service.List(c.Request.Context(), claims, &filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(page))
}

func (h *Handler) ListOptions(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}

	options, err := h.service.ListOptions(c.Request.Context(), claims)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(options))
}

func (h *Handler) GetPatient(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	found, err := h.service.Get(c.Request.Context(), claims, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), claims, id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) DeletePatient(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims, id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) CreateRecord(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}
	patientID, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.recordSvc.Create(c.Request.Context(), claims, patientID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) ListRecords(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}
	patientID, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	records, err := h.recordSvc.ListByPatient(c.Request.Context(), claims, patientID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}

// CreateAssessment accepts a multipart form: the text sections as form
// fields plus any number of attachments under "files".
func (h *Handler) CreateAssessment(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}
	patientID, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.CreateAssessmentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid multipart form"))
		return
	}

	var uploads []assessment.FileUpload
	for _, fileHeader := range form.File["files"] {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("unreadable upload"))
			return
		}
		defer file.Close()
		uploads = append(uploads, assessment.FileUpload{
			Filename: fileHeader.Filename,
			Content:  file,
		})
	}

	created, err := h.assessmentSvc.Create(c.Request.Context(), claims, patientID, &req, uploads)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) ListAssessments(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}
	patientID, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	assessments, err := h.assessmentSvc.ListByPatient(c.Request.Context(), claims, patientID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(assessments))
}
