package handlers

import (
	"net/http"

	"freelance_backend/internal/middleware"
	"freelance_backend/internal/services"
	"freelance_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// defaultMultipartMemory - часть формы в памяти, остальное во временных файлах
const defaultMultipartMemory = 32 << 20

type ProjectHandler struct {
	*BaseHandler
	projectService services.ProjectService
	bidService     services.BidService
}

func NewProjectHandler(base *BaseHandler, projectService services.ProjectService, bidService services.BidService) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:    base,
		projectService: projectService,
		bidService:     bidService,
	}
}

func (h *ProjectHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/projects", h.ListProjects)
	public.GET("/projects/:id", h.GetProject)

	projects := protected.Group("/projects")
	{
		projects.POST("", h.CreateProject)
		projects.GET("/my", h.ListMyProjects)
		projects.PUT("/:id", h.UpdateProject)
		projects.PATCH("/:id", h.PatchStatus)
		projects.DELETE("/:id", h.DeleteProject)
		projects.GET("/:id/bids", h.ListProjectBids)
	}
}

// CreateProject godoc
// @Summary Создать проект
// @Description Создает проект с модерацией текста. JSON или multipart (поле data + файлы files/images)
// @Tags projects
// @Accept json,mpfd
// @Produce json
// @Param project body dto.CreateProjectRequest true "Проект"
// @Success 201 {object} SuccessResponse{data=dto.ProjectMutationResponse}
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	files, ok := h.BindAndValidate_Multipart(c, &req, defaultMultipartMemory)
	if !ok {
		return
	}

	res, err := h.projectService.CreateProject(c.Request.Context(), h.GetDB(c), actor, &req, files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Respond(c, http.StatusCreated, res)
}

// ListProjects godoc
// @Summary Список опубликованных проектов
// @Tags projects
// @Produce json
// @Param category query string false "Категория"
// @Param search query string false "Поиск по заголовку и описанию"
// @Param isUrgent query bool false "Срочные"
// @Param isRemote query bool false "Удаленные"
// @Param budgetMin query number false "Бюджет от"
// @Param budgetMax query number false "Бюджет до"
// @Param page query int false "Страница"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} SuccessResponse{data=dto.PageResponse[dto.ProjectResponse]}
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	var q dto.ProjectListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	page, err := h.projectService.ListProjects(c.Request.Context(), h.GetDB(c), &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Respond(c, http.StatusOK, page)
}

// GetProject godoc
// @Summary Получить проект
// @Description Черновики и проекты на модерации видят только владелец и модераторы. Просмотр публичного проекта увеличивает счетчик
// @Tags projects
// @Produce json
// @Param id path string true "ID проекта"
// @Success 200 {object} SuccessResponse{data=dto.ProjectResponse}
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.GetProject(c.Request.Context(), h.GetDB(c), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Respond(c, http.StatusOK, project)
}

// ListMyProjects godoc
// @Summary Мои проекты
// @Tags projects
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.PageResponse[dto.ProjectResponse]}
// @Security BearerAuth
// @Router /projects/my [get]
func (h *ProjectHandler) ListMyProjects(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	res, err := h.projectService.ListMyProjects(c.Request.Context(), h.GetDB(c), actor, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Respond(c, http.StatusOK, res)
}

// UpdateProject godoc
// @Summary Обновить проект
// @Description Частичное обновление. existingImages задает изображения, которые нужно оставить
// @Tags projects
// @Accept json,mpfd
// @Produce json
// @Param id path string true "ID проекта"
// @Param project body dto.UpdateProjectRequest true "Изменения"
// @Success 200 {object} SuccessResponse{data=dto.ProjectMutationResponse}
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	files, ok := h.BindAndValidate_Multipart(c, &req, defaultMultipartMemory)
	if !ok {
		return
	}

	res, err := h.projectService.UpdateProject(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &req, files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Respond(c, http.StatusOK, res)
}

// PatchStatus godoc
// @Summary Сменить статус проекта
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "ID проекта"
// @Param status body dto.PatchStatusRequest true "Новый статус"
// @Success 200 {object} SuccessResponse{data=dto.ProjectResponse}
// @Failure 409 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /projects/{id} [patch]
func (h *ProjectHandler) PatchStatus(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.PatchStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	project, err := h.projectService.PatchStatus(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Respond(c, http.StatusOK, project)
}

// DeleteProject godoc
// @Summary Удалить проект
// @Description Удаляет файлы проекта и строки; при ошибке БД проект помечается deleted
// @Tags projects
// @Produce json
// @Param id path string true "ID проекта"
// @Success 200 {object} SuccessResponse{data=dto.DeleteProjectResponse}
// @Security BearerAuth
// @Router /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	res, err := h.projectService.DeleteProject(c.Request.Context(), h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondMessage(c, http.StatusOK, res, "Project deleted")
}

// ListProjectBids godoc
// @Summary Отклики на проект
// @Description Владелец видит все отклики, остальные только свои
// @Tags bids
// @Produce json
// @Param id path string true "ID проекта"
// @Param status query string false "Статус отклика"
// @Success 200 {object} SuccessResponse{data=[]dto.BidResponse}
// @Security BearerAuth
// @Router /projects/{id}/bids [get]
func (h *ProjectHandler) ListProjectBids(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var q dto.BidListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	bids, err := h.bidService.ListProjectBids(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), q.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Respond(c, http.StatusOK, bids)
}
