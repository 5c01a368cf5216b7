package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/config"
	"github.com/rewear/exchange-service/internal/events"
	"github.com/rewear/exchange-service/internal/handler"
	"github.com/rewear/exchange-service/internal/middleware"
	"github.com/rewear/exchange-service/internal/model"
	"github.com/rewear/exchange-service/internal/repository"
	"github.com/rewear/exchange-service/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Select the persistence backend
	store, cleanup, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer cleanup()

	// Initialize the event publisher (if enabled)
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("Initialized Kafka publisher", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	registerValidations()

	// Create services
	authService := service.NewAuthService(store, cfg, logger)
	userService := service.NewUserService(store, logger)
	itemService := service.NewItemService(store, logger)
	notificationService := service.NewNotificationService(store, logger)
	pointsService := service.NewPointsService(store, logger)
	eligibilityService := service.NewEligibilityService(store, logger)
	swapRequestService := service.NewSwapRequestService(store, eligibilityService, notificationService, publisher, logger)
	swapService := service.NewSwapService(store, notificationService, publisher, cfg.Points.SwapReward, logger)
	adminService := service.NewAdminService(store, notificationService, logger)

	router := setupRouter(
		cfg,
		authService,
		userService,
		itemService,
		notificationService,
		pointsService,
		swapRequestService,
		swapService,
		adminService,
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func createLogger(level string) (*zap.Logger, error) {
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

// openStore opens the configured persistence backend. The memory driver
// exists for local development and tests.
func openStore(cfg *config.Config, logger *zap.Logger) (repository.Store, func(), error) {
	if cfg.Storage.Driver == "memory" {
		logger.Info("Using in-memory store")
		return repository.NewMemoryStore(), func() {}, nil
	}

	db, err := connectToDB(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewPostgresStore(db, logger), func() { db.Close() }, nil
}

func connectToDB(dbConfig config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName,
		dbConfig.SSLMode,
	)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	return db, nil
}

// registerValidations wires custom binding tags into gin's validator
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("swapmethod", func(fl validator.FieldLevel) bool {
			return model.SwapMethod(fl.Field().String()).IsValid()
		})
	}
}

func setupRouter(
	cfg *config.Config,
	authService *service.AuthService,
	userService *service.UserService,
	itemService *service.ItemService,
	notificationService *service.NotificationService,
	pointsService *service.PointsService,
	swapRequestService *service.SwapRequestService,
	swapService *service.SwapService,
	adminService *service.AdminService,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := router.Group("/api")
	{
		// ==================== AUTH ROUTES ====================
		auth := api.Group("/auth")
		{
			authHandler := handler.NewAuthHandler(authService, logger)

			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		authRequired := middleware.AuthMiddleware(authService, logger)

		// ==================== USER ROUTES ====================
		users := api.Group("/users")
		{
			users.Use(authRequired)

			userHandler := handler.NewUserHandler(userService, logger)
			users.GET("/me", userHandler.Me)
			users.PUT("/me", userHandler.UpdateMe)
		}

		// ==================== ITEM ROUTES ====================
		items := api.Group("/items")
		{
			itemHandler := handler.NewItemHandler(itemService, logger)

			items.GET("", itemHandler.Search)
			items.GET("/:id", itemHandler.Get)

			itemsProtected := items.Group("")
			itemsProtected.Use(authRequired)
			itemsProtected.POST("", itemHandler.Create)
			itemsProtected.PUT("/:id", itemHandler.Update)
			itemsProtected.DELETE("/:id", itemHandler.Delete)
		}

		// ==================== SWAP ROUTES ====================
		swapRequests := api.Group("/swap-requests")
		{
			swapRequests.Use(authRequired)

			swapRequestHandler := handler.NewSwapRequestHandler(swapRequestService, logger)
			swapRequests.POST("", swapRequestHandler.Create)
			swapRequests.GET("", swapRequestHandler.List)
			swapRequests.GET("/:id", swapRequestHandler.Get)
			swapRequests.PUT("/:id", swapRequestHandler.UpdateStatus)
		}

		swaps := api.Group("/swaps")
		{
			swaps.Use(authRequired)

			swapHandler := handler.NewSwapHandler(swapService, logger)
			swaps.POST("", swapHandler.Finalize)
			swaps.GET("", swapHandler.List)
		}

		// ==================== POINTS ROUTES ====================
		points := api.Group("/points")
		{
			points.Use(authRequired)

			pointsHandler := handler.NewPointsHandler(pointsService, logger)
			points.GET("/balance", pointsHandler.Balance)
			points.GET("/transactions", pointsHandler.Transactions)
		}

		// ==================== NOTIFICATION ROUTES ====================
		notifications := api.Group("/notifications")
		{
			notifications.Use(authRequired)

			notificationHandler := handler.NewNotificationHandler(notificationService, logger)
			notifications.GET("", notificationHandler.List)
			notifications.GET("/count", notificationHandler.UnreadCount)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
		}

		// ==================== ADMIN ROUTES ====================
		admin := api.Group("/admin")
		{
			admin.Use(authRequired)
			admin.Use(middleware.RequireRole(model.RoleAdmin))

			adminHandler := handler.NewAdminHandler(adminService, logger)
			admin.GET("/stats", adminHandler.Stats)
			admin.PUT("/items/:id/approve", adminHandler.ApproveItem)
			admin.PUT("/items/:id/reject", adminHandler.RejectItem)
			admin.DELETE("/items/:id", adminHandler.DeleteItem)
		}
	}

	return router
}
