package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"freelance_backend/internal/auth"
	"freelance_backend/internal/logger"
	"freelance_backend/internal/services"
	"freelance_backend/internal/services/dto"
	"freelance_backend/internal/validator"
	"freelance_backend/pkg/apperrors"

	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	sendBuffer     = 256
)

// IncomingWSMessage - команда клиента
type IncomingWSMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type Client struct {
	UserID string
	Actor  auth.Actor
	Conn   *websocket.Conn
	Send   chan any

	ctx    context.Context
	cancel context.CancelFunc
	db     *gorm.DB

	Manager     *WebSocketManager
	ChatService services.ChatService
	Validator   *validator.Validator
}

func (c *Client) readPump() {
	defer func() {
		c.cancel()
		c.Manager.drop(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msgBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.CtxWarn(c.ctx, "WebSocket read error", "error", err.Error())
			}
			return
		}

		var msg IncomingWSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			c.reply(OutgoingWSMessage{Type: "error", Error: string(apperrors.CodeValidationFailed), Message: "Invalid message format"})
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(msg); err != nil {
				logger.CtxWarn(c.ctx, "WebSocket write error", "error", err.Error())
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Централизованный обработчик
func (c *Client) handleMessage(msg IncomingWSMessage) {
	var (
		result any
		err    error
	)

	switch msg.Action {
	case "send_message":
		var input dto.SendMessageRequest
		if err = c.decode(msg.Data, &input); err == nil {
			result, err = c.ChatService.SendMessage(c.ctx, c.db, c.Actor, &input)
		}

	case "add_reaction":
		var payload struct {
			MessageID string `json:"messageId" validate:"required"`
			Emoji     string `json:"emoji" validate:"required,emoji"`
		}
		if err = c.decode(msg.Data, &payload); err == nil {
			result, err = c.ChatService.AddReaction(c.ctx, c.db, c.Actor, payload.MessageID, payload.Emoji)
		}

	case "mark_read":
		var payload struct {
			MessageID string `json:"messageId" validate:"required"`
		}
		if err = c.decode(msg.Data, &payload); err == nil {
			result, err = c.ChatService.MarkRead(c.ctx, c.db, c.Actor, payload.MessageID)
		}

	case "mark_room_read":
		var payload struct {
			RoomID string `json:"roomId" validate:"required"`
		}
		if err = c.decode(msg.Data, &payload); err == nil {
			result, err = c.ChatService.MarkRoomRead(c.ctx, c.db, c.Actor, payload.RoomID)
		}

	default:
		err = apperrors.NewBadRequestError("Unknown action: " + msg.Action)
	}

	if err != nil {
		c.replyError(msg.Action, err)
		return
	}
	c.reply(OutgoingWSMessage{Type: "ack", Action: msg.Action, Payload: result})
}

// decode разбирает и валидирует данные команды так же, как HTTP обработчики
func (c *Client) decode(data json.RawMessage, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return apperrors.NewBadRequestError("Invalid payload")
	}
	if err := c.Validator.Validate(dst); err != nil {
		var ve *validator.ValidationError
		if errors.As(err, &ve) {
			return apperrors.ValidationError(ve.Errors)
		}
		return apperrors.ValidationError(map[string]string{"data": err.Error()})
	}
	if rc, ok := dst.(dto.RuleChecker); ok {
		if errs := rc.Rules(); len(errs) > 0 {
			return apperrors.ValidationError(errs)
		}
	}
	return nil
}

func (c *Client) replyError(action string, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.InternalError(err)
	}
	if appErr.HTTPCode >= 500 {
		logger.CtxWithError(c.ctx, "WebSocket action failed", err, "action", action)
	}
	c.reply(OutgoingWSMessage{
		Type:    "error",
		Action:  action,
		Error:   string(appErr.Code),
		Message: appErr.Message,
	})
}

func (c *Client) reply(msg OutgoingWSMessage) {
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = time.Now().UTC()
	}
	if !c.Manager.sendToClient(c, msg) {
		logger.CtxDebug(c.ctx, "WebSocket reply dropped", "type", msg.Type, "action", msg.Action)
	}
}
