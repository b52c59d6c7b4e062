package routes

import (
	"net/http"

	"fleet-campus-admin/internal/config"
	"fleet-campus-admin/internal/delivery/http/handler"
	"fleet-campus-admin/internal/delivery/http/ws"
	"fleet-campus-admin/internal/domain/user"
	"fleet-campus-admin/internal/jobs"
	"fleet-campus-admin/internal/logger"
	"fleet-campus-admin/internal/middleware"
	"fleet-campus-admin/internal/usecase/alert"
	"fleet-campus-admin/internal/usecase/driver"
	"fleet-campus-admin/internal/usecase/fuel"
	"fleet-campus-admin/internal/usecase/maintenance"
	"fleet-campus-admin/internal/usecase/report"
	"fleet-campus-admin/internal/usecase/student"
	"fleet-campus-admin/internal/usecase/trip"
	userUsecase "fleet-campus-admin/internal/usecase/user"
	"fleet-campus-admin/internal/usecase/vehicle"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether the database is reachable.
type HealthChecker interface {
	Health() error
}

// Dependencies carries everything the HTTP layer needs from main.
type Dependencies struct {
	DB          HealthChecker
	Hub         *ws.Hub
	Scheduler   *jobs.Scheduler
	RateLimiter *middleware.RateLimiter
	// UploadDir is served under /api/v1/uploads when documents are kept on disk.
	UploadDir string

	Users       *userUsecase.Service
	Vehicles    *vehicle.Service
	Drivers     *driver.Service
	Trips       *trip.Service
	Fuel        *fuel.Service
	Maintenance *maintenance.Service
	Students    *student.Service
	Reports     *report.Service
	Alerts      *alert.Service
}

func SetupRoutes(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// request id, logging, security headers, CORS, size limit, rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.BodyLimits{
		JSON:   cfg.Server.MaxJSONBody,
		Upload: cfg.Server.MaxUploadBody,
	}))
	if deps.RateLimiter != nil {
		router.Use(middleware.RateLimitMiddleware(deps.RateLimiter))
	}

	router.GET("/health", func(c *gin.Context) {
		if err := deps.DB.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		body := gin.H{
			"status":  "healthy",
			"message": "Service is running",
		}
		if deps.Hub != nil {
			body["live_clients"] = deps.Hub.ConnectedClients()
		}
		c.JSON(http.StatusOK, body)
	})

	userHandler := handler.NewUserHandler(deps.Users)

	v1 := router.Group("/api/v1")
	{
		userHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
		{
			userHandler.RegisterProfileRoutes(protected)

			handler.NewVehicleHandler(deps.Vehicles).RegisterRoutes(protected)
			handler.NewDriverHandler(deps.Drivers).RegisterRoutes(protected)
			handler.NewTripHandler(deps.Trips, deps.Hub).RegisterRoutes(protected)
			handler.NewFuelHandler(deps.Fuel).RegisterRoutes(protected)
			handler.NewMaintenanceHandler(deps.Maintenance).RegisterRoutes(protected)
			handler.NewStudentHandler(deps.Students).RegisterRoutes(protected)
			handler.NewReportHandler(deps.Reports).RegisterRoutes(protected)
			handler.NewAlertHandler(deps.Alerts).RegisterRoutes(protected)

			if deps.UploadDir != "" {
				uploads := protected.Group("/uploads", middleware.RequirePermission(user.PermViewFleet))
				uploads.Static("", deps.UploadDir)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				userHandler.RegisterAdminRoutes(admin)
				if deps.Scheduler != nil {
					handler.NewAdminHandler(deps.Scheduler).RegisterRoutes(admin)
				}
			}
		}
	}

	logger.Info("All routes initialized")
	return router
}
