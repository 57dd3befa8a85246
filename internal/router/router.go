package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/fisiomanager/clinic-api/internal/handler"
	"github.com/fisiomanager/clinic-api/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine *gin.Engine
	auth   *middleware.AuthMiddleware
	access *middleware.AccessMiddleware

	h            *handler.Handler
	authH        Handler
	billingH     Handler
	patientH     Handler
	appointmentH Handler
	recordH      Handler
	reportH      Handler
	staffH       Handler
}

type Config struct {
	RateLimit  rate.Limit
	RateBurst  int
	CORSConfig middleware.CORSConfig
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	access *middleware.AccessMiddleware,
	h *handler.Handler,
	authH Handler,
	billingH Handler,
	patientH Handler,
	appointmentH Handler,
	recordH Handler,
	reportH Handler,
	staffH Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	registerValidations()
	engine := gin.New()

	r := &Router{
		engine:       engine,
		auth:         auth,
		access:       access,
		h:            h,
		authH:        authH,
		billingH:     billingH,
		patientH:     patientH,
		appointmentH: appointmentH,
		recordH:      recordH,
		reportH:      reportH,
		staffH:       staffH,
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		middleware.Metrics(),
		middleware.CORS(config.CORSConfig),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.setupHealthCheck(api)

	// Routes a clinic can reach without active access: auth itself, and
	// billing so a lapsed clinic can buy a new pass.
	r.authH.RegisterRoutes(api)
	r.billingH.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(
		r.auth.Authenticate(),
		r.access.RequireActiveAccess(),
	)
	r.patientH.RegisterRoutes(protected)
	r.appointmentH.RegisterRoutes(protected)
	r.recordH.RegisterRoutes(protected)
	r.reportH.RegisterRoutes(protected)
	r.staffH.RegisterRoutes(protected)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
