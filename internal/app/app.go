package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"freelance_backend/database"
	"freelance_backend/internal/auth"
	"freelance_backend/internal/config"
	"freelance_backend/internal/handlers"
	"freelance_backend/internal/logger"
	"freelance_backend/internal/middleware"
	"freelance_backend/internal/moderation"
	"freelance_backend/internal/notify"
	"freelance_backend/internal/routes"
	"freelance_backend/internal/services"
	"freelance_backend/internal/storage"
	"freelance_backend/internal/validator"
	"freelance_backend/pkg/apperrors"
	"freelance_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencies - внешние системы. Storage обязателен, Moderator и Notifier могут быть nil
type Dependencies struct {
	Storage   storage.Storage
	Moderator moderation.Moderator
	// Notifier получает события вместе с websocket хабом
	Notifier notify.Notifier
}

// Server - собранное приложение
type Server struct {
	Router    *gin.Engine
	Services  *services.ServiceContainer
	WSManager *ws.WebSocketManager
	Tokens    *auth.TokenManager
}

func Run() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	logger.Init(cfg.Server.Env)
	apperrors.SetDebug(cfg.IsDevelopment())
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(gormDB); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := initializeDependencies(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize dependencies", "error", err)
	}
	defer cleanup()

	server := SetupRouter(ctx, cfg, gormDB, deps)

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: server.Router,
	}

	go func() {
		logger.Info("Server starting", "addr", cfg.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("Server stopped")
}

// SetupRouter собирает сервисы, хэндлеры и маршруты. WebSocket хаб живет до отмены ctx
func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB, deps Dependencies) *Server {
	wsManager := ws.NewWebSocketManager()
	go wsManager.Run(ctx)

	var notifier notify.Notifier = wsManager
	if deps.Notifier != nil {
		notifier = notify.Multi{wsManager, deps.Notifier}
	}

	// 1. Инициализируем сервисы
	serviceContainer := services.NewServiceContainer(services.NewRepositories(), services.Dependencies{
		Storage:   deps.Storage,
		Moderator: deps.Moderator,
		Notifier:  notifier,
		Upload: services.UploadPolicy{
			MaxSize:      cfg.Upload.MaxSize,
			MaxFiles:     cfg.Upload.MaxFiles,
			AllowedTypes: cfg.Upload.AllowedTypes,
			Concurrency:  cfg.Upload.Concurrency,
		},
	})

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer, wsManager)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// 4. Делегируем регистрацию маршрутов пакету 'routes'
	opts := routes.Options{}
	if local, ok := deps.Storage.(*storage.LocalStorage); ok && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		opts.LocalUploadsDir = local.BasePath()
		opts.UploadsURL = cfg.Storage.BaseURL
	}
	routes.RegisterRoutes(ginRouter, appHandlers, tokens, opts)

	return &Server{
		Router:    ginRouter,
		Services:  serviceContainer,
		WSManager: wsManager,
		Tokens:    tokens,
	}
}

// initializeDependencies подключает хранилище, модерацию и брокер.
// Redis и RabbitMQ необязательны: при ошибке подключения работаем без них
func initializeDependencies(ctx context.Context, cfg *config.Config) (Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		AccountID:  cfg.Storage.AccountID,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		return Dependencies{}, cleanup, err
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	var moderator moderation.Moderator = moderation.NewEngine()
	if cfg.Moderation.Endpoint != "" {
		moderator = moderation.NewRemoteClient(cfg.Moderation.Endpoint, cfg.Moderation.APIKey, cfg.Moderation.Timeout)
		logger.Info("Remote moderation enabled", "endpoint", cfg.Moderation.Endpoint)
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unavailable, moderation cache disabled", "addr", cfg.Redis.Addr, "error", err)
			rdb.Close()
		} else {
			moderator = moderation.NewCachedModerator(moderator, rdb, cfg.Moderation.CacheTTL)
			closers = append(closers, func() { rdb.Close() })
			logger.Info("Moderation cache enabled", "addr", cfg.Redis.Addr)
		}
	}

	deps := Dependencies{
		Storage:   storageInstance,
		Moderator: moderator,
	}

	if cfg.Notifications.AMQPURL != "" {
		publisher, err := notify.NewAMQPPublisher(cfg.Notifications.AMQPURL, cfg.Notifications.Exchange)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, events stay in-process", "error", err)
		} else {
			deps.Notifier = publisher
			closers = append(closers, publisher.Close)
			logger.Info("Event publishing enabled", "exchange", cfg.Notifications.Exchange)
		}
	}

	return deps, cleanup, nil
}

func initializeHandlers(cfg *config.Config, svc *services.ServiceContainer, wsManager *ws.WebSocketManager) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		ProjectHandler:    handlers.NewProjectHandler(baseHandler, svc.ProjectService, svc.BidService),
		BidHandler:        handlers.NewBidHandler(baseHandler, svc.BidService, svc.AcceptanceService),
		FavoriteHandler:   handlers.NewFavoriteHandler(baseHandler, svc.FavoriteService),
		ModerationHandler: handlers.NewModerationHandler(baseHandler, svc.ModerationService),
		ReviewHandler:     handlers.NewReviewHandler(baseHandler, svc.ReviewService),
		ChatHandler:       handlers.NewChatHandler(baseHandler, svc.ChatService),
		AdminHandler:      handlers.NewAdminHandler(baseHandler, svc.ProjectService, svc.ReviewService),
		WSHandler:         handlers.NewWSHandler(baseHandler, wsManager, cfg.Server.AllowedOrigins, svc.ChatService),
		HealthHandler:     handlers.NewHealthHandler(baseHandler),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = 32 << 20
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	if cfg.Server.RequestTimeout > 0 {
		router.Use(middleware.TimeoutMiddleware(cfg.Server.RequestTimeout))
	}
	router.Use(middleware.DBMiddleware(db))
	return router
}
