package handlers

import (
	"freelance_backend/internal/logger"
	"freelance_backend/internal/services"
	"freelance_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	*BaseHandler
	manager     *ws.WebSocketManager
	upgrader    websocket.Upgrader
	chatService services.ChatService
}

func NewWSHandler(base *BaseHandler, manager *ws.WebSocketManager, allowedOrigins []string, chatService services.ChatService) *WSHandler {
	return &WSHandler{
		BaseHandler: base,
		manager:     manager,
		upgrader:    ws.NewUpgrader(allowedOrigins),
		chatService: chatService,
	}
}

func (h *WSHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket godoc
// @Summary WebSocket канал событий и чата
// @Description Токен передается заголовком Authorization или параметром access_token
// @Tags ws
// @Param access_token query string false "JWT"
// @Success 101
// @Security BearerAuth
// @Router /ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	// после неудачного апгрейда ответ уже записан upgrader'ом
	if err := ws.ServeWS(h.manager, &h.upgrader, c.Writer, c.Request, actor, h.GetDB(c), h.chatService, h.validator); err != nil {
		logger.CtxWarn(c.Request.Context(), "WebSocket upgrade failed", "error", err)
	}
}
