package handlers

import (
	"net/http"

	"freelance_backend/internal/services"
	"freelance_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/users/:id/reviews", h.ListUserReviews)
	public.GET("/users/:id/rating", h.GetUserRating)

	reviews := protected.Group("/reviews")
	{
		reviews.POST("", h.CreateReview)
		reviews.POST("/:id/reply", h.ReplyToReview)
	}
}

// CreateReview godoc
// @Summary Оставить отзыв
// @Description Отзыв по завершенному проекту между его участниками подтверждается автоматически
// @Tags reviews
// @Accept json
// @Produce json
// @Param review body dto.CreateReviewRequest true "Отзыв"
// @Success 201 {object} SuccessResponse{data=dto.ReviewResponse}
// @Security BearerAuth
// @Router /reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Respond(c, http.StatusCreated, review)
}

// ReplyToReview godoc
// @Summary Ответить на отзыв
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "ID отзыва"
// @Param reply body dto.ReplyReviewRequest true "Ответ"
// @Success 200 {object} SuccessResponse{data=dto.ReviewResponse}
// @Security BearerAuth
// @Router /reviews/{id}/reply [post]
func (h *ReviewHandler) ReplyToReview(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.ReplyReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.ReplyToReview(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), req.Reply)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Respond(c, http.StatusOK, review)
}

// ListUserReviews godoc
// @Summary Отзывы о пользователе
// @Tags reviews
// @Produce json
// @Param id path string true "ID пользователя"
// @Success 200 {object} SuccessResponse{data=dto.PageResponse[dto.ReviewResponse]}
// @Router /users/{id}/reviews [get]
func (h *ReviewHandler) ListUserReviews(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	res, err := h.reviewService.ListUserReviews(c.Request.Context(), h.GetDB(c), c.Param("id"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Respond(c, http.StatusOK, res)
}

// GetUserRating godoc
// @Summary Рейтинг пользователя
// @Description Учитываются только подтвержденные отзывы
// @Tags reviews
// @Produce json
// @Param id path string true "ID пользователя"
// @Success 200 {object} SuccessResponse{data=dto.UserRatingResponse}
// @Router /users/{id}/rating [get]
func (h *ReviewHandler) GetUserRating(c *gin.Context) {
	rating, err := h.reviewService.GetUserRating(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Respond(c, http.StatusOK, rating)
}
