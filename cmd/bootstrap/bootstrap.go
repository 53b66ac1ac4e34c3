package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-booking-core/config"
	deliveryHttp "clinic-booking-core/internal/delivery/http"
	"clinic-booking-core/internal/delivery/http/handler"
	"clinic-booking-core/internal/delivery/http/middleware"
	"clinic-booking-core/internal/domain/entity"
	"clinic-booking-core/internal/domain/gateway"
	"clinic-booking-core/internal/infrastructure/cache"
	"clinic-booking-core/internal/infrastructure/database"
	"clinic-booking-core/internal/infrastructure/messaging"
	"clinic-booking-core/internal/repository"
	"clinic-booking-core/internal/service"
	"clinic-booking-core/internal/usecase"
	"clinic-booking-core/pkg/jwt"
	"clinic-booking-core/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Reconciler  *service.SlotReconciler

	closers []io.Closer
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
	log, err := setupLogger(cfg.App.LogLevel)
	if err != nil {
		return nil, err
	}
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Apply schema
	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(cfg.DB, log); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	notifier, err := app.newNotificationGateway(cfg.Notify, redisClient, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to init notification gateway: %w", err)
	}

	// Initialize all layers
	app.Server = app.initializeServer(cfg, log, db, redisClient, notifier)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) (*logrus.Logger, error) {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	log.SetLevel(lvl)

	return log, nil
}

// newNotificationGateway picks the event sink named by NOTIFY_DRIVER
func (app *App) newNotificationGateway(cfg config.NotifyConfig, redisClient *redis.Client, log *logrus.Logger) (gateway.NotificationGateway, error) {
	switch cfg.Driver {
	case config.NotifyDriverRedis:
		log.Infof("Booking events published to Redis channel %s", cfg.RedisChannel)
		return messaging.NewRedisGateway(redisClient, cfg.RedisChannel), nil
	case config.NotifyDriverRabbitMQ:
		publisher, err := messaging.NewRabbitMQGateway(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, publisher)
		log.Infof("Booking events published to RabbitMQ exchange %s", cfg.RabbitMQExchange)
		return publisher, nil
	default:
		return messaging.NewLogGateway(log), nil
	}
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client, notifier gateway.NotificationGateway) *http.Server {
	loc := cfg.App.Location

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	transactor := repository.NewTransactor(db)
	slotRepo := repository.NewSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)
	patientDirectory := repository.NewPatientDirectory(db)

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	app.Reconciler = service.NewSlotReconciler(slotRepo, redisClient, log, cfg.Booking.ReconcileGrace, cfg.Booking.ReconcileInterval)

	// Initialize usecases
	slotRegistry := usecase.NewSlotRegistry(transactor, log, slotRepo, loc, time.Now)
	validationPipeline := usecase.NewValidationPipeline(usecase.ValidationRules{
		OpeningTime:          entity.MustParseClockTime(cfg.Booking.OpeningTime),
		ClosingTime:          entity.MustParseClockTime(cfg.Booking.ClosingTime),
		GranularityMinutes:   cfg.Booking.SlotGranularityMinutes,
		MaxDescriptionLength: cfg.Booking.MaxDescriptionLength,
	}, loc)
	cancellationPolicy := usecase.NewCancellationPolicy(cfg.Booking.MinCancellationNoticeDays, loc)
	bookingUsecase := usecase.NewBookingUsecase(
		transactor, log, slotRegistry, bookingRepo, validationPipeline, cancellationPolicy, auditService, notifier,
		usecase.BookingOptions{CompensationTimeout: cfg.Booking.CompensationTimeout},
	)

	// Initialize handlers
	bookingHandler := handler.NewBookingHandler(bookingUsecase, customValidator, log)
	healthHandler := handler.NewHealthHandler(map[string]handler.HealthCheck{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	})

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient, patientDirectory, log)
	corsMiddleware := middleware.NewCORSMiddleware()
	requestLogger := middleware.NewRequestLogger(log)

	// Initialize router
	router := deliveryHttp.NewRouter(bookingHandler, healthHandler, authMiddleware, corsMiddleware, requestLogger)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           middleware.Timeout(cfg.App.RequestTimeout)(httpRouter),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	app.Reconciler.Start()

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
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

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close stops background work and closes all connections (broker, database, redis)
func (app *App) Close() {
	if app.Reconciler != nil {
		app.Reconciler.Stop()
	}

	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			app.Log.Warnf("Failed to close resource: %v", err)
		}
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
