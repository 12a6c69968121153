package handlers

import (
	"net/http"

	"freelance_backend/internal/services"
	"freelance_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	*BaseHandler
	moderationService services.ModerationService
}

func NewModerationHandler(base *BaseHandler, moderationService services.ModerationService) *ModerationHandler {
	return &ModerationHandler{
		BaseHandler:       base,
		moderationService: moderationService,
	}
}

func (h *ModerationHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/moderation/check", h.Check)
}

// Check godoc
// @Summary Проверить текст модерацией
// @Description Возвращает вердикт, оценку и нарушения. При недоступном бэкенде вердикт unverified
// @Tags moderation
// @Accept json
// @Produce json
// @Param request body dto.ModerationCheckRequest true "Текст и опции"
// @Success 200 {object} SuccessResponse{data=moderation.Result}
// @Security BearerAuth
// @Router /moderation/check [post]
func (h *ModerationHandler) Check(c *gin.Context) {
	var req dto.ModerationCheckRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	res := h.moderationService.Check(c.Request.Context(), req.Text, req.Options)
	h.Respond(c, http.StatusOK, res)
}
