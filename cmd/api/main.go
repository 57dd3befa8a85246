package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fisiomanager/clinic-api/internal/config"
	"github.com/fisiomanager/clinic-api/internal/email"
	"github.com/fisiomanager/clinic-api/internal/handler"
	appointmentHandler "github.com/fisiomanager/clinic-api/internal/handler/appointment"
	authHandler "github.com/fisiomanager/clinic-api/internal/handler/auth"
	billingHandler "github.com/fisiomanager/clinic-api/internal/handler/billing"
	patientHandler "github.com/fisiomanager/clinic-api/internal/handler/patient"
	recordHandler "github.com/fisiomanager/clinic-api/internal/handler/record"
	reportHandler "github.com/fisiomanager/clinic-api/internal/handler/report"
	staffHandler "github.com/fisiomanager/clinic-api/internal/handler/staff"
	"github.com/fisiomanager/clinic-api/internal/middleware"
	"github.com/fisiomanager/clinic-api/internal/repository/postgres"
	"github.com/fisiomanager/clinic-api/internal/router"
	appointmentService "github.com/fisiomanager/clinic-api/internal/service/appointment"
	assessmentService "github.com/fisiomanager/clinic-api/internal/service/assessment"
	authService "github.com/fisiomanager/clinic-api/internal/service/auth"
	billingService "github.com/fisiomanager/clinic-api/internal/service/billing"
	patientService "github.com/fisiomanager/clinic-api/internal/service/patient"
	recordService "github.com/fisiomanager/clinic-api/internal/service/record"
	reportService "github.com/fisiomanager/clinic-api/internal/service/report"
	staffService "github.com/fisiomanager/clinic-api/internal/service/staff"
	"github.com/fisiomanager/clinic-api/internal/service/tenant"
	"github.com/fisiomanager/clinic-api/pkg/auth"
	"github.com/fisiomanager/clinic-api/pkg/logger"
	"github.com/fisiomanager/clinic-api/pkg/media"
	"github.com/fisiomanager/clinic-api/pkg/metrics"
	"github.com/fisiomanager/clinic-api/pkg/payment"
	"github.com/fisiomanager/clinic-api/pkg/security"
	"github.com/fisiomanager/clinic-api/pkg/tokenstore"
)

func main() {
	log.Logger = logger.New(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	tokens, err := tokenstore.NewRedisStore(tokenstore.Config{URL: cfg.Redis.URL})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	// Repositories
	clinicRepo := postgres.NewClinicRepository(db)
	userRepo := postgres.NewUserRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	recordRepo := postgres.NewRecordRepository(db)
	assessmentRepo := postgres.NewAssessmentRepository(db)

	// External collaborators
	paymentClient := payment.NewClient(payment.Config{
		AccessToken: cfg.Payment.AccessToken,
		BaseURL:     cfg.Payment.BaseURL,
	})
	mediaClient := media.NewClient(media.Config{
		CloudName: cfg.Media.CloudName,
		APIKey:    cfg.Media.APIKey,
		APISecret: cfg.Media.APISecret,
		BaseURL:   cfg.Media.BaseURL,
	})
	emailSvc := email.NewService(cfg.SMTP)

	m := metrics.NewMetrics("clinic_api")

	// Services
	guard := tenant.NewGuard()
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	hasher := security.NewBcryptHasher(0)

	authSvc := authService.NewService(clinicRepo, userRepo, jwtSvc, hasher, tokens, emailSvc)
	patientSvc := patientService.NewService(patientRepo, guard)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, guard, m)
	recordSvc := recordService.NewService(recordRepo, patientRepo, guard)
	assessmentSvc := assessmentService.NewService(assessmentRepo, patientRepo, guard, mediaClient, m)
	reportSvc := reportService.NewService(appointmentRepo, patientRepo)
	billingSvc := billingService.NewService(clinicRepo, userRepo, paymentClient, emailSvc, m, cfg.Server.BaseURL)
	staffSvc := staffService.NewService(userRepo, hasher, guard)

	// Middleware
	authMw := middleware.NewAuthMiddleware(jwtSvc, tokens)
	accessMw := middleware.NewAccessMiddleware(clinicRepo)

	// Handlers
	h := handler.NewHandler()
	r := router.NewRouter(
		authMw,
		accessMw,
		h,
		authHandler.NewHandler(authSvc, authMw),
		billingHandler.NewHandler(billingSvc, authMw),
		patientHandler.NewHandler(patientSvc, recordSvc, assessmentSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		recordHandler.NewHandler(recordSvc, assessmentSvc),
		reportHandler.NewHandler(reportSvc),
		staffHandler.NewHandler(staffSvc),
		router.Config{
			RateLimit:  100,
			RateBurst:  200,
			CORSConfig: middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
