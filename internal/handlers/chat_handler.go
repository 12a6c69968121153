package handlers

import (
	"net/http"

	"freelance_backend/internal/services"
	"freelance_backend/internal/services/dto"
	"freelance_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
	}
}

func (h *ChatHandler) RegisterRoutes(protected *gin.RouterGroup) {
	chat := protected.Group("/chat")
	{
		chat.GET("/rooms", h.ListRooms)
		chat.GET("/rooms/:roomId/messages", h.ListRoomMessages)
		chat.POST("/rooms/:roomId/read", h.MarkRoomRead)

		chat.POST("/messages", h.SendMessage)
		chat.POST("/messages/:id/read", h.MarkRead)
		chat.POST("/messages/:id/reactions", h.AddReaction)

		chat.POST("/uploads", h.UploadFile)
	}
}

// ListRooms godoc
// @Summary Комнаты пользователя
// @Tags chat
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]dto.RoomResponse}
// @Security BearerAuth
// @Router /chat/rooms [get]
func (h *ChatHandler) ListRooms(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	rooms, err := h.chatService.ListRooms(c.Request.Context(), h.GetDB(c), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusOK, rooms)
}

// ListRoomMessages godoc
// @Summary Сообщения комнаты
// @Tags chat
// @Produce json
// @Param roomId path string true "ID комнаты (bid:<id> или dm:<a>:<b>)"
// @Param before query string false "RFC3339, сообщения до этого момента"
// @Param limit query int false "Количество"
// @Success 200 {object} SuccessResponse{data=[]dto.MessageResponse}
// @Security BearerAuth
// @Router /chat/rooms/{roomId}/messages [get]
func (h *ChatHandler) ListRoomMessages(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var q dto.MessageListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	msgs, err := h.chatService.ListRoomMessages(c.Request.Context(), h.GetDB(c), actor, c.Param("roomId"), q.Before, q.Limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusOK, msgs)
}

// SendMessage godoc
// @Summary Отправить сообщение
// @Tags chat
// @Accept json
// @Produce json
// @Param message body dto.SendMessageRequest true "Сообщение"
// @Success 201 {object} SuccessResponse{data=dto.MessageResponse}
// @Security BearerAuth
// @Router /chat/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	msg, err := h.chatService.SendMessage(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusCreated, msg)
}

// MarkRead godoc
// @Summary Отметить сообщение прочитанным
// @Tags chat
// @Produce json
// @Param id path string true "ID сообщения"
// @Success 200 {object} SuccessResponse{data=dto.MessageResponse}
// @Security BearerAuth
// @Router /chat/messages/{id}/read [post]
func (h *ChatHandler) MarkRead(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	msg, err := h.chatService.MarkRead(c.Request.Context(), h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusOK, msg)
}

// MarkRoomRead godoc
// @Summary Прочитать все сообщения комнаты
// @Tags chat
// @Produce json
// @Param roomId path string true "ID комнаты"
// @Success 200 {object} SuccessResponse{data=dto.MarkReadResponse}
// @Security BearerAuth
// @Router /chat/rooms/{roomId}/read [post]
func (h *ChatHandler) MarkRoomRead(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	res, err := h.chatService.MarkRoomRead(c.Request.Context(), h.GetDB(c), actor, c.Param("roomId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusOK, res)
}

// AddReaction godoc
// @Summary Поставить реакцию
// @Tags chat
// @Accept json
// @Produce json
// @Param id path string true "ID сообщения"
// @Param reaction body dto.ReactionRequest true "Эмодзи"
// @Success 200 {object} SuccessResponse{data=dto.MessageResponse}
// @Security BearerAuth
// @Router /chat/messages/{id}/reactions [post]
func (h *ChatHandler) AddReaction(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.ReactionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	msg, err := h.chatService.AddReaction(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), req.Emoji)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusOK, msg)
}

// UploadFile godoc
// @Summary Загрузить вложение для чата
// @Description Возвращает URL, который затем передается в payloadUrl сообщения
// @Tags chat
// @Accept mpfd
// @Produce json
// @Param roomId formData string true "ID комнаты"
// @Param file formData file true "Файл"
// @Success 201 {object} SuccessResponse{data=dto.ChatUploadResponse}
// @Security BearerAuth
// @Router /chat/uploads [post]
func (h *ChatHandler) UploadFile(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.ValidationError(map[string]string{"file": "File is required"}))
		return
	}
	roomID := c.PostForm("roomId")
	if roomID == "" {
		apperrors.HandleError(c, apperrors.ValidationError(map[string]string{"roomId": "Room is required"}))
		return
	}

	res, err := h.chatService.UploadChatFile(c.Request.Context(), h.GetDB(c), actor, roomID, fileUpload(fh))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusCreated, res)
}
