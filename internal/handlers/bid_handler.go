package handlers

import (
	"net/http"

	"freelance_backend/internal/services"
	"freelance_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type BidHandler struct {
	*BaseHandler
	bidService        services.BidService
	acceptanceService services.AcceptanceService
}

func NewBidHandler(base *BaseHandler, bidService services.BidService, acceptanceService services.AcceptanceService) *BidHandler {
	return &BidHandler{
		BaseHandler:       base,
		bidService:        bidService,
		acceptanceService: acceptanceService,
	}
}

func (h *BidHandler) RegisterRoutes(protected *gin.RouterGroup) {
	bids := protected.Group("/bids")
	{
		bids.POST("", h.SubmitBid)
		bids.GET("/my", h.ListMyBids)
		bids.GET("/:id", h.GetBid)
		bids.PUT("/:id", h.UpdateBidStatus)
		bids.POST("/:id/accept", h.AcceptBid)
	}
}

// SubmitBid godoc
// @Summary Откликнуться на проект
// @Description orderId - ID проекта. Одновременно допускается один активный отклик на проект
// @Tags bids
// @Accept json
// @Produce json
// @Param bid body dto.SubmitBidRequest true "Отклик"
// @Success 201 {object} SuccessResponse{data=dto.BidResponse}
// @Failure 409 {object} apperrors.ErrorResponse "Активный отклик уже есть или проект закрыт"
// @Security BearerAuth
// @Router /bids [post]
func (h *BidHandler) SubmitBid(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.SubmitBidRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	bid, err := h.bidService.SubmitBid(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Respond(c, http.StatusCreated, bid)
}

// ListMyBids godoc
// @Summary Мои отклики
// @Tags bids
// @Produce json
// @Param status query string false "Статус"
// @Success 200 {object} SuccessResponse{data=[]dto.BidResponse}
// @Security BearerAuth
// @Router /bids/my [get]
func (h *BidHandler) ListMyBids(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var q dto.BidListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	bids, err := h.bidService.ListMyBids(c.Request.Context(), h.GetDB(c), actor, q.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Respond(c, http.StatusOK, bids)
}

// GetBid godoc
// @Summary Получить отклик
// @Tags bids
// @Produce json
// @Param id path string true "ID отклика"
// @Success 200 {object} SuccessResponse{data=dto.BidResponse}
// @Security BearerAuth
// @Router /bids/{id} [get]
func (h *BidHandler) GetBid(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	bid, err := h.bidService.GetBid(c.Request.Context(), h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Respond(c, http.StatusOK, bid)
}

// UpdateBidStatus godoc
// @Summary Отклонить или отозвать отклик
// @Description rejected - владелец проекта, withdrawn - автор отклика. accepted только через /bids/{id}/accept
// @Tags bids
// @Accept json
// @Produce json
// @Param id path string true "ID отклика"
// @Param status body dto.UpdateBidStatusRequest true "Новый статус"
// @Success 200 {object} SuccessResponse{data=dto.BidResponse}
// @Failure 409 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /bids/{id} [put]
func (h *BidHandler) UpdateBidStatus(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateBidStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	bid, err := h.bidService.UpdateBidStatus(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Respond(c, http.StatusOK, bid)
}

// AcceptBid godoc
// @Summary Принять отклик
// @Description Атомарно: отклик accepted, остальные ожидающие rejected, проект in_progress
// @Tags bids
// @Produce json
// @Param id path string true "ID отклика"
// @Success 200 {object} SuccessResponse{data=dto.AcceptBidResponse}
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /bids/{id}/accept [post]
func (h *BidHandler) AcceptBid(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	res, err := h.acceptanceService.AcceptBid(c.Request.Context(), h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondMessage(c, http.StatusOK, res, "Bid accepted")
}
