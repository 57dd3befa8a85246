package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fisiomanager/clinic-api/internal/handler"
	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/internal/service/appointment"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.Schedule)
		appointments.GET("", h.List)
		appointments.GET("/calendar", h.Calendar)
		appointments.GET("/:id", h.Get)
		appointments.PATCH("/:id", h.Update)
		appointments.POST("/:id/:action", h.Act)
	}
}

func (h *Handler) Schedule(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}

	var req model.ScheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.Schedule(c.Request.Context(), claims, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(result))
}

func (h *Handler) Get(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	appt, err := h.service.Get(c.Request.Context(), claims, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appt))
}

func (h *Handler) Update(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateAppointmentRequest
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

func (h *Handler) Act(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	action := model.AppointmentAction(c.Param("action"))
	if err := h.service.Act(c.Request.Context(), claims, id, action); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) List(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}
	filters, ok := parseFilters(c)
	if !ok {
		return
	}

	appointments, err := h.service.List(c.Request.Context(), claims, filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) Calendar(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}
	filters, ok := parseFilters(c)
	if !ok {
		return
	}

	events, err := h.service.Calendar(c.Request.Context(), claims, filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(events))
}

func parseFilters(c *gin.Context) (*model.AppointmentFilters, bool) {
	filters := &model.AppointmentFilters{}

	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient_id"))
			return nil, false
		}
		filters.PatientID = id
	}
	if raw := c.Query("status"); raw != "" {
		filters.Status = model.AppointmentStatus(raw)
	}
	if raw := c.Query("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid start"))
			return nil, false
		}
		filters.StartDate = t
	}
	if raw := c.Query("end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid end"))
			return nil, false
		}
		filters.EndDate = t
	}
	return filters, true
}
