package handlers

import (
	"net/http"

	"freelance_backend/internal/services"
	"freelance_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	*BaseHandler
	favoriteService services.FavoriteService
}

func NewFavoriteHandler(base *BaseHandler, favoriteService services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		BaseHandler:     base,
		favoriteService: favoriteService,
	}
}

func (h *FavoriteHandler) RegisterRoutes(protected *gin.RouterGroup) {
	favorites := protected.Group("/projects/favorites")
	{
		favorites.POST("", h.AddFavorite)
		favorites.GET("", h.ListFavorites)
		favorites.DELETE("/:id", h.RemoveFavorite)
		favorites.GET("/:id/check", h.CheckFavorite)
	}
}

// AddFavorite godoc
// @Summary Добавить проект в избранное
// @Description Повторное добавление не создает дубликат
// @Tags favorites
// @Accept json
// @Produce json
// @Param favorite body dto.FavoriteRequest true "Проект"
// @Success 200 {object} SuccessResponse{data=dto.FavoriteStatusResponse}
// @Security BearerAuth
// @Router /projects/favorites [post]
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.FavoriteRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	res, err := h.favoriteService.AddFavorite(c.Request.Context(), h.GetDB(c), actor, req.ProjectID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusOK, res)
}

// RemoveFavorite godoc
// @Summary Убрать проект из избранного
// @Tags favorites
// @Produce json
// @Param id path string true "ID проекта"
// @Success 200 {object} SuccessResponse{data=dto.FavoriteStatusResponse}
// @Security BearerAuth
// @Router /projects/favorites/{id} [delete]
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	res, err := h.favoriteService.RemoveFavorite(c.Request.Context(), h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusOK, res)
}

// CheckFavorite godoc
// @Summary Проверить, в избранном ли проект
// @Tags favorites
// @Produce json
// @Param id path string true "ID проекта"
// @Success 200 {object} SuccessResponse{data=dto.FavoriteStatusResponse}
// @Security BearerAuth
// @Router /projects/favorites/{id}/check [get]
func (h *FavoriteHandler) CheckFavorite(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	res, err := h.favoriteService.CheckFavorite(c.Request.Context(), h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusOK, res)
}

// ListFavorites godoc
// @Summary Избранные проекты
// @Tags favorites
// @Produce json
// @Param page query int false "Страница"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} SuccessResponse{data=dto.PageResponse[dto.ProjectResponse]}
// @Security BearerAuth
// @Router /projects/favorites [get]
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	res, err := h.favoriteService.ListFavorites(c.Request.Context(), h.GetDB(c), actor, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusOK, res)
}
