package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-scheduling/config"
	deliveryHttp "clinic-scheduling/internal/delivery/http"
	"clinic-scheduling/internal/delivery/http/handler"
	"clinic-scheduling/internal/delivery/http/middleware"
	"clinic-scheduling/internal/domain/repository"
	"clinic-scheduling/internal/infrastructure/cache"
	"clinic-scheduling/internal/infrastructure/database"
	"clinic-scheduling/internal/infrastructure/metrics"
	gormRepository "clinic-scheduling/internal/repository"
	"clinic-scheduling/internal/repository/memory"
	"clinic-scheduling/internal/service"
	"clinic-scheduling/internal/usecase"
	"clinic-scheduling/pkg/clock"
	"clinic-scheduling/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	LocalLocker *service.LocalLocker
	Server      *http.Server
}

// stores bundles one store implementation behind the repository interfaces
type stores struct {
	tx           repository.Transactor
	doctors      repository.DoctorRepository
	appointments repository.AppointmentRepository
	auditLogs    repository.AuditLogRepository
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg.App)
	log.Info("Configuration loaded successfully")

	// Initialize store
	var s stores
	switch cfg.DB.Driver {
	case config.DBDriverMemory:
		store := memory.NewStore()
		s = stores{tx: store, doctors: store.Doctors(), appointments: store.Appointments(), auditLogs: store.AuditLogs()}
		log.Warn("Using in-memory store, data is lost on restart")
	default:
		db, err := database.NewPostgresConnection(cfg.DB, cfg.App)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = db
		s = stores{
			tx:           gormRepository.NewTransactor(db),
			doctors:      gormRepository.NewDoctorRepository(db),
			appointments: gormRepository.NewAppointmentRepository(db),
			auditLogs:    gormRepository.NewAuditLogRepository(db),
		}
		log.Info("Database connected successfully")
	}

	// Initialize admission locks
	app.LocalLocker = service.NewLocalLocker(log, cfg.Lock.WaitTimeout)
	var locker service.AdmissionLocker = app.LocalLocker
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		breaker := config.NewCircuitBreaker("Redis-Lock", log)
		locker = service.NewRedisLocker(redisClient, app.LocalLocker, breaker, log, cfg.Lock.WaitTimeout, cfg.Lock.TTL)
		log.Info("Redis connected successfully, admission locks are distributed")
	}

	// Initialize all layers
	server, err := initializeServer(cfg, log, s, locker)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.AppConfig) *logrus.Logger {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	return logrus.StandardLogger()
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, s stores, locker service.AdmissionLocker) (*http.Server, error) {
	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	admissions := metrics.NewAdmissions(registry)

	// Initialize cache
	doctorCache, err := cache.NewDoctorCache(cfg.Cache.DoctorSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create doctor cache: %w", err)
	}

	// Initialize services
	auditService := service.NewAuditService(log, s.auditLogs)

	// Initialize usecases
	loc := cfg.App.Location
	doctorUsecase := usecase.NewDoctorRegistryUsecase(s.tx, log, s.doctors, locker, auditService, doctorCache, admissions)
	appointmentUsecase := usecase.NewAppointmentSchedulerUsecase(s.tx, log, loc, s.doctors, s.appointments, locker, auditService, admissions)
	utilizationUsecase := usecase.NewUtilizationUsecase(log, loc, s.appointments)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, s.auditLogs)

	// Initialize handlers
	systemClock := clock.System()
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, appointmentUsecase, customValidator, systemClock)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator, systemClock)
	reportHandler := handler.NewReportHandler(utilizationUsecase, systemClock)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase, customValidator)

	// Initialize middleware
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(doctorHandler, appointmentHandler, reportHandler, auditLogHandler, corsMiddleware, loggingMiddleware, registry)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s, timezone: %s", app.Config.App.Env, app.Config.App.Timezone)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close stops background workers and closes all connections (database, redis)
func (app *App) Close() {
	if app.LocalLocker != nil {
		app.LocalLocker.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
