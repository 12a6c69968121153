package routes

import (
	"freelance_backend/docs"
	"freelance_backend/internal/auth"
	"freelance_backend/internal/handlers"
	"freelance_backend/internal/logger"
	"freelance_backend/internal/middleware"
	"freelance_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const apiPrefix = "/api/v1"

// Options - служебные маршруты, зависящие от конфигурации
type Options struct {
	// LocalUploadsDir - каталог локального хранилища, раздается по UploadsURL
	LocalUploadsDir string
	UploadsURL      string
}

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	tokens *auth.TokenManager,
	opts Options,
) {
	ginRouter.GET("/health", appHandlers.HealthHandler.Health)
	ginRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	docs.SwaggerInfo.BasePath = apiPrefix
	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if opts.LocalUploadsDir != "" && opts.UploadsURL != "" {
		ginRouter.Static(opts.UploadsURL, opts.LocalUploadsDir)
	}

	// Регистрация HTTP API v1
	public := ginRouter.Group(apiPrefix)
	public.Use(middleware.OptionalAuthMiddleware(tokens))
	protected := ginRouter.Group(apiPrefix)
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		appHandlers.ProjectHandler.RegisterRoutes(public, protected)
		appHandlers.ReviewHandler.RegisterRoutes(public, protected)
		appHandlers.BidHandler.RegisterRoutes(protected)
		appHandlers.FavoriteHandler.RegisterRoutes(protected)
		appHandlers.ModerationHandler.RegisterRoutes(protected)
		appHandlers.ChatHandler.RegisterRoutes(protected)
	}

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleModerator))
	appHandlers.AdminHandler.RegisterRoutes(admin)

	// Регистрация WebSocket
	wsGroup := ginRouter.Group("")
	wsGroup.Use(middleware.AuthMiddleware(tokens))
	appHandlers.WSHandler.RegisterRoutes(wsGroup)
	logger.Info("WebSocket route /ws registered")
}
