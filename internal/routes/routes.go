package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	analyticsDomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/analytics"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucAnalytics "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/analytics"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// Deps is the infrastructure built once in main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   *logging.Logger
	Audit    *audit.Dispatcher
	Listener domain.ChangeListener

	// Cache and Setup are nil when no Redis is configured.
	Cache ucAnalytics.Cache
	Setup analyticsDomain.SetupListener

	BookingMetrics   *metrics.BookingMetrics
	DashboardMetrics *metrics.DashboardMetrics
	HTTPMetrics      *metrics.HTTPMetrics
	Gatherer         prometheus.Gatherer
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	cfg := deps.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestLogger(deps.Logger),
		middleware.PrometheusMetrics(deps.HTTPMetrics),
		middleware.SentryMiddleware(),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(deps.DB)
	analyticsRepo := infraRepo.NewAnalyticsGormRepository(deps.DB)

	bookingOpts := []ucAppointment.Option{
		ucAppointment.WithListener(deps.Listener),
		ucAppointment.WithMetrics(deps.BookingMetrics),
		ucAppointment.WithLogger(deps.Logger),
	}

	dashboardOpts := []ucAnalytics.Option{
		ucAnalytics.WithCapacity(analyticsDomain.CapacityOptions{
			SlotMinutes:   cfg.SlotMinutes,
			WeeksPerMonth: cfg.WeeksPerMonth,
		}),
		ucAnalytics.WithMetrics(deps.DashboardMetrics),
		ucAnalytics.WithLogger(deps.Logger),
	}
	if deps.Cache != nil {
		dashboardOpts = append(dashboardOpts, ucAnalytics.WithCache(deps.Cache))
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(deps.DB, cfg)
	meHandler := handlers.NewMeHandler(deps.DB)
	tenantHandler := handlers.NewTenantHandler(deps.DB, deps.Setup)
	serviceHandler := handlers.NewServiceHandler(deps.DB)
	professionalHandler := handlers.NewProfessionalHandler(deps.DB, deps.Setup)
	clientHandler := handlers.NewClientHandler(deps.DB)
	workScheduleHandler := handlers.NewWorkScheduleHandler(deps.DB, deps.Audit, deps.Setup)
	auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB)

	appointmentHandler := handlers.NewAppointmentHandler(appointmentRepo, deps.Audit, bookingOpts...)
	dashboardHandler := handlers.NewDashboardHandler(
		ucAnalytics.NewGetDashboardMetrics(analyticsRepo, dashboardOpts...),
	)

	publicHandler := handlers.NewPublicHandler(appointmentRepo, deps.Audit, bookingOpts...)
	publicCatalogHandler := handlers.NewPublicCatalogHandler(deps.DB)

	// ======================================================
	// OPERATIONS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug", publicCatalogHandler.Show)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/tenant", tenantHandler.Get)
			secured.PATCH("/me/tenant", tenantHandler.Update)

			secured.GET("/me/clients", clientHandler.List)
			secured.GET("/me/clients/:id", clientHandler.Show)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/professionals", professionalHandler.List)
			secured.POST("/me/professionals", professionalHandler.Create)
			secured.PATCH("/me/professionals/:id", professionalHandler.Update)

			secured.GET("/me/work-schedules", workScheduleHandler.Get)
			secured.PUT("/me/work-schedules", workScheduleHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/me/appointments/:id/no-show", appointmentHandler.MarkNoShow)

			secured.GET("/me/dashboard", dashboardHandler.Get)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
