package middleware

import (
	"strings"

	"freelance_backend/internal/auth"
	"freelance_backend/internal/logger"
	"freelance_backend/internal/models"
	"freelance_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

// AuthMiddleware - проверка JWT. Для websocket токен можно передать в access_token,
// потому что браузер не умеет ставить заголовки при апгрейде
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			c.Abort()
			return
		}
		if !authenticate(c, tokens, tokenStr) {
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware - для публичных маршрутов: без токена запрос анонимный,
// с невалидным токеном - 401
func OptionalAuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr := bearerToken(c); tokenStr != "" && !authenticate(c, tokens, tokenStr) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, tokens *auth.TokenManager, tokenStr string) bool {
	claims, err := tokens.ParseToken(tokenStr)
	if err != nil {
		logger.CtxDebug(c.Request.Context(), "Token rejected", "error", err.Error())
		apperrors.HandleError(c, apperrors.ErrInvalidToken)
		c.Abort()
		return false
	}
	if err := auth.ValidateRole(claims.Role); err != nil {
		apperrors.HandleError(c, apperrors.ErrInvalidToken)
		c.Abort()
		return false
	}

	c.Set(ctxUserID, claims.UserID())
	c.Set(ctxRole, models.UserRole(claims.Role))
	c.Request = c.Request.WithContext(logger.WithActor(c.Request.Context(), claims.UserID(), claims.Role))
	return true
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return c.Query("access_token")
	}
	return ""
}

// RequireRoles - доступ только для перечисленных ролей
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role, ok := c.Get(ctxRole)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
			c.Abort()
			return
		}
		if r, _ := role.(models.UserRole); !roleSet[r] {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return ""
	}
	id, _ := userID.(string)
	return id
}

// GetActor - аутентифицированный пользователь запроса; пустой, если auth не пройден
func GetActor(c *gin.Context) auth.Actor {
	actor := auth.Actor{ID: GetUserID(c)}
	if role, ok := c.Get(ctxRole); ok {
		actor.Role, _ = role.(models.UserRole)
	}
	return actor
}
