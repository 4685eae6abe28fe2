package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"accommodation_portal/internal/apiclient"
	"accommodation_portal/internal/config"
	"accommodation_portal/internal/handlers"
	"accommodation_portal/internal/logger"
	"accommodation_portal/internal/middleware"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/notifications"
	"accommodation_portal/internal/repositories"
	"accommodation_portal/internal/routes"
	"accommodation_portal/internal/session"
	"accommodation_portal/internal/telemetry"
	"accommodation_portal/internal/validator"
	"accommodation_portal/internal/web"
	"accommodation_portal/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 15 * time.Second

// Services is everything the router needs besides the configuration.
type Services struct {
	Sessions      *session.Store
	Notifications *notifications.Service
	API           *apiclient.Client
}

func Run() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
	}
	if err := config.LoadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	shutdownTracing := telemetry.Setup(cfg.Telemetry)

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := OpenDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	if err := Migrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Database connected")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := initializeServices(cfg, gormDB)
	ginRouter, err := SetupRouter(cfg, svc)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	cleanup := workers.NewCleanupWorker(svc.Sessions, svc.Notifications, cfg.Session.CleanupInterval, cfg.Notifications.Retention)
	cleanup.Start(ctx)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(ginRouter, cfg.Telemetry.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Portal starting on %s", server.Addr), "api", svc.API.BaseURL())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.Error("Server startup error", "error", err)
		stop()
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	cleanup.Wait()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Tracing shutdown error", "error", err)
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Database close error", "error", err)
	}
	logger.Info("Portal stopped")
}

// OpenDatabase opens the session database with the configured driver.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.Database.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	level := gormlogger.Warn
	if cfg.IsDevelopment() {
		level = gormlogger.Info
	}
	return gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(level)})
}

// Migrate creates the portal's own tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Session{},
		&models.SessionItem{},
		&models.Notification{},
		&models.NotificationSeed{},
	)
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *Services {
	sessionRepo := repositories.NewSessionRepository()
	notificationRepo := repositories.NewNotificationRepository()

	return &Services{
		Sessions:      session.NewStore(gormDB, sessionRepo, cfg.Session.TTL),
		Notifications: notifications.NewService(gormDB, notificationRepo),
		API: apiclient.New(apiclient.Options{
			BaseURL: cfg.API.BaseURL,
			Timeout: cfg.API.Timeout,
		}),
	}
}

// SetupRouter builds the gin engine with middleware, templates and every route.
func SetupRouter(cfg *config.Config, svc *Services) (*gin.Engine, error) {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	templates, err := web.NewTemplateManager()
	if err != nil {
		return nil, err
	}

	ginRouter := initializeGinRouter(cfg, svc)
	ginRouter.HTMLRender = templates

	baseHandler := handlers.NewBaseHandler(validator.New(), svc.Notifications)
	routes.RegisterRoutes(ginRouter, handlers.NewAppHandlers(baseHandler))
	return ginRouter, nil
}

func initializeGinRouter(cfg *config.Config, svc *Services) *gin.Engine {
	cookie := session.CookieOptions{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
		MaxAge: cfg.Session.TTL,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SessionMiddleware(svc.Sessions, svc.API, cookie))
	router.Use(middleware.NavigationMiddleware())
	return router
}
