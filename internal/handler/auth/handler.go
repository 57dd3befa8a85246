package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fisiomanager/clinic-api/internal/handler"
	"github.com/fisiomanager/clinic-api/internal/middleware"
	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/internal/service/auth"
)

type Handler struct {
	service *auth.Service
	authMw  *middleware.AuthMiddleware
}

func NewHandler(service *auth.Service, authMw *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, authMw: authMw}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/auth")
	{
		group.POST("/register", h.Register)
		group.POST("/login", h.Login)
		group.POST("/logout", h.authMw.Authenticate(), h.Logout)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(tokens))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) Logout(c *gin.Context) {
	claims, ok := handler.MustClaims(c)
	if !ok {
		return
	}
	token := c.GetString(middleware.ContextToken)

	if err := h.service.Logout(c.Request.Context(), token, claims); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
