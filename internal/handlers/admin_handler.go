package handlers

import (
	"net/http"

	"freelance_backend/internal/services"
	"freelance_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// AdminHandler - ручная модерация проектов и отзывов
type AdminHandler struct {
	*BaseHandler
	projectService services.ProjectService
	reviewService  services.ReviewService
}

func NewAdminHandler(base *BaseHandler, projectService services.ProjectService, reviewService services.ReviewService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:    base,
		projectService: projectService,
		reviewService:  reviewService,
	}
}

// RegisterRoutes ожидает группу, уже закрытую RequireRoles
func (h *AdminHandler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/projects/moderation", h.ModerationQueue)
	admin.POST("/projects/:id/moderation", h.ModerateProject)
	admin.PATCH("/reviews/:id/verify", h.VerifyReview)
}

// ModerationQueue godoc
// @Summary Очередь модерации проектов
// @Tags admin
// @Produce json
// @Param page query int false "Страница"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} SuccessResponse{data=dto.PageResponse[dto.ProjectResponse]}
// @Security BearerAuth
// @Router /admin/projects/moderation [get]
func (h *AdminHandler) ModerationQueue(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	res, err := h.projectService.ListModerationQueue(c.Request.Context(), h.GetDB(c), actor, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusOK, res)
}

// ModerateProject godoc
// @Summary Решение модератора по проекту
// @Description approve публикует проект, reject возвращает его в черновики
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "ID проекта"
// @Param decision body dto.ModerationDecisionRequest true "Решение"
// @Success 200 {object} SuccessResponse{data=dto.ProjectResponse}
// @Security BearerAuth
// @Router /admin/projects/{id}/moderation [post]
func (h *AdminHandler) ModerateProject(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.ModerationDecisionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	project, err := h.projectService.ModerateProject(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusOK, project)
}

// VerifyReview godoc
// @Summary Подтвердить или снять подтверждение отзыва
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "ID отзыва"
// @Param verify body dto.VerifyReviewRequest true "Флаг"
// @Success 200 {object} SuccessResponse{data=dto.ReviewResponse}
// @Security BearerAuth
// @Router /admin/reviews/{id}/verify [patch]
func (h *AdminHandler) VerifyReview(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.VerifyReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.VerifyReview(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), req.IsVerified)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusOK, review)
}
