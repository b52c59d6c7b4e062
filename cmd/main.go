package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleet-campus-admin/internal/config"
	"fleet-campus-admin/internal/delivery/http/ws"
	"fleet-campus-admin/internal/domain/blob"
	domainCache "fleet-campus-admin/internal/domain/cache"
	"fleet-campus-admin/internal/infrastructure/cache"
	"fleet-campus-admin/internal/infrastructure/database/postgres"
	"fleet-campus-admin/internal/infrastructure/events"
	"fleet-campus-admin/internal/infrastructure/storage"
	"fleet-campus-admin/internal/jobs"
	"fleet-campus-admin/internal/logger"
	"fleet-campus-admin/internal/middleware"
	"fleet-campus-admin/internal/routes"
	"fleet-campus-admin/internal/usecase/alert"
	"fleet-campus-admin/internal/usecase/driver"
	"fleet-campus-admin/internal/usecase/fuel"
	"fleet-campus-admin/internal/usecase/maintenance"
	"fleet-campus-admin/internal/usecase/report"
	"fleet-campus-admin/internal/usecase/student"
	"fleet-campus-admin/internal/usecase/trip"
	"fleet-campus-admin/internal/usecase/user"
	"fleet-campus-admin/internal/usecase/vehicle"
	"fleet-campus-admin/pkg/mqtt"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	var rotation *logger.Rotation
	if cfg.Log.File != "" {
		rotation = &logger.Rotation{
			Filename:   cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		}
	}
	if err := logger.Init(env, rotation); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application", zap.String("environment", env))

	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		logger.Fatal("Database configuration is missing. Please set DB_HOST and DB_NAME environment variables.")
	}
	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT secret is missing. Please set JWT_SECRET environment variable.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()
	if cfg.Database.AutoMigrate {
		if err := db.Migrate(); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	bus := events.NewBus()
	hub := ws.NewHub()
	go hub.Run(ctx)
	bus.Register("websocket", hub)

	var statsCache domainCache.Store = cache.NoopStore{}
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Warn("Redis unavailable, running without cache", zap.Error(err))
		} else {
			defer rdb.Close()
			statsCache = cache.NewRedisStore(rdb)
			bus.Register("redis", events.NewRedisPublisher(rdb))
		}
	}

	if cfg.MQTT.Broker != "" {
		client := mqtt.NewClient(mqtt.Config{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			QoS:      1,
		})
		if err := client.Connect(); err != nil {
			logger.Warn("MQTT unavailable, events will not be bridged", zap.Error(err))
		} else {
			defer client.Disconnect()
			bus.Register("mqtt", events.NewMQTTPublisher(client, cfg.MQTT.TopicPrefix))
		}
	}

	store, uploadDir := newDocumentStore(cfg)

	userRepo := postgres.NewUserRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	tripRepo := postgres.NewTripRepository(db)
	fuelRepo := postgres.NewFuelRepository(db)
	maintenanceRepo := postgres.NewMaintenanceRepository(db)
	studentRepo := postgres.NewStudentRepository(db)
	alertRepo := postgres.NewAlertRepository(db)

	userService := user.NewService(userRepo, refreshTokenRepo, cfg.JWT)
	fuelService := fuel.NewService(db, fuelRepo, vehicleRepo, statsCache, cfg.Redis.StatsTTL)
	maintenanceService := maintenance.NewService(db, maintenanceRepo, vehicleRepo, bus)
	studentService := student.NewService(db, studentRepo, bus)
	alertService := alert.NewService(alertRepo, driverRepo, vehicleRepo, fuelRepo, bus, cfg.Alerts.MinFuelEfficiency)

	if cfg.Admin.Email != "" {
		if err := userService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			logger.Fatal("Failed to bootstrap administrator", zap.Error(err))
		}
	}

	scheduler := jobs.NewScheduler(nil)
	if cfg.Jobs.Enabled {
		scheduler.Register(jobs.Job{Name: jobs.TokenCleanup, Interval: cfg.Jobs.TokenCleanupInterval, Run: userService.CleanupExpiredTokens})
		scheduler.Register(jobs.Job{Name: jobs.EmailRepair, Interval: cfg.Jobs.EmailRepairInterval, Run: jobs.Counter(studentService.FixEmailMismatches), RunOnStart: true})
		scheduler.Register(jobs.Job{Name: jobs.BudgetRefresh, Interval: cfg.Jobs.BudgetRefreshInterval, Run: jobs.Counter(fuelService.RefreshActiveBudgets)})
		scheduler.Register(jobs.Job{Name: jobs.ReminderScan, Interval: cfg.Jobs.ReminderScanInterval, Run: jobs.Counter(maintenanceService.ScanReminders), RunOnStart: true})
		scheduler.Register(jobs.Job{Name: jobs.AlertScan, Interval: cfg.Jobs.AlertScanInterval, Run: jobs.Counter(alertService.Scan), RunOnStart: true})
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst)
	go limiter.RunSweeper(ctx)

	router := routes.SetupRoutes(cfg, &routes.Dependencies{
		DB:          db,
		Hub:         hub,
		Scheduler:   scheduler,
		RateLimiter: limiter,
		UploadDir:   uploadDir,

		Users:       userService,
		Vehicles:    vehicle.NewService(vehicleRepo, store),
		Drivers:     driver.NewService(driverRepo, store),
		Trips:       trip.NewService(db, tripRepo, driverRepo, vehicleRepo, bus, statsCache, store, cfg.Redis.StatsTTL),
		Fuel:        fuelService,
		Maintenance: maintenanceService,
		Students:    studentService,
		Reports:     report.NewService(studentRepo, tripRepo, fuelRepo),
		Alerts:      alertService,
	})

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

// newDocumentStore prefers S3 and falls back to local disk. The returned
// directory is non-empty only for the disk store.
func newDocumentStore(cfg *config.Config) (blob.Store, string) {
	if cfg.Storage.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(cfg.Storage.S3Bucket, cfg.Storage.S3Region)
		if err == nil {
			logger.Info("Documents stored in S3", zap.String("bucket", cfg.Storage.S3Bucket))
			return s3Store, ""
		}
		logger.Warn("S3 unavailable, falling back to local storage", zap.Error(err))
	}

	local, err := storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicURL)
	if err != nil {
		logger.Fatal("Failed to prepare local document storage", zap.Error(err))
	}
	return local, local.Dir()
}
