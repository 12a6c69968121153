package ws

import (
	"context"
	"net/http"
	"strings"

	"freelance_backend/internal/auth"
	"freelance_backend/internal/logger"
	"freelance_backend/internal/services"
	"freelance_backend/internal/validator"

	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

// NewUpgrader - пустой список разрешает любой origin
func NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 {
				return true
			}
			for _, o := range allowedOrigins {
				if o == "*" || strings.EqualFold(o, origin) {
					return true
				}
			}
			return false
		},
	}
}

// ServeWS поднимает соединение для аутентифицированного пользователя.
// Контекст запроса завершается после апгрейда, поэтому клиент получает свой
func ServeWS(
	manager *WebSocketManager,
	upgrader *websocket.Upgrader,
	w http.ResponseWriter,
	r *http.Request,
	actor auth.Actor,
	db *gorm.DB,
	chatSvc services.ChatService,
	v *validator.Validator,
) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	ctx = logger.WithActor(ctx, actor.ID, string(actor.Role))
	if rid := logger.GetRequestID(r.Context()); rid != "" {
		ctx = logger.WithRequestID(ctx, rid)
	}

	client := &Client{
		UserID:      actor.ID,
		Actor:       actor,
		Conn:        conn,
		Send:        make(chan any, sendBuffer),
		ctx:         ctx,
		cancel:      cancel,
		db:          db.WithContext(ctx),
		Manager:     manager,
		ChatService: chatSvc,
		Validator:   v,
	}

	select {
	case manager.register <- client:
	case <-manager.done:
		cancel()
		conn.Close()
		return http.ErrServerClosed
	}

	logger.CtxInfo(ctx, "WebSocket client connected")

	go client.writePump()
	go client.readPump()
	return nil
}
