package dto

import (
	"time"

	"freelance_backend/internal/models"
)

type MilestoneRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=200"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Days        int     `json:"days" validate:"required,min=1,max=365"`
	Price       float64 `json:"price" validate:"gt=0"`
}

// SubmitBidRequest - orderId это id проекта
type SubmitBidRequest struct {
	OrderID      string             `json:"orderId" validate:"required,uuid"`
	FreelancerID string             `json:"freelancerId" validate:"omitempty,uuid"`
	Proposal     string             `json:"proposal" validate:"required,notblank,min=10,max=5000"`
	Price        float64            `json:"price" validate:"gt=0"`
	DeliveryDays int                `json:"deliveryDays" validate:"required,min=1,max=365"`
	Milestones   []MilestoneRequest `json:"milestones" validate:"omitempty,max=20,dive"`
}

func (r *SubmitBidRequest) Rules() map[string]string {
	errs := map[string]string{}
	if len(r.Milestones) == 0 {
		return errs
	}
	days := 0
	for _, m := range r.Milestones {
		days += m.Days
	}
	if days > r.DeliveryDays {
		errs["milestones"] = "Milestone days exceed delivery days"
	}
	return errs
}

type UpdateBidStatusRequest struct {
	Status models.BidStatus `json:"status" validate:"required,is-bid-status"`
}

type BidListQuery struct {
	Status models.BidStatus `form:"status" validate:"omitempty,is-bid-status"`
}

type BidResponse struct {
	ID              string             `json:"id"`
	ProjectID       string             `json:"orderId"`
	FreelancerID    string             `json:"freelancerId"`
	Proposal        string             `json:"proposal"`
	Price           float64            `json:"price"`
	DeliveryDays    int                `json:"deliveryDays"`
	Status          string             `json:"status"`
	Milestones      []models.Milestone `json:"milestones"`
	ModerationScore int                `json:"moderationScore"`
	DecidedAt       *time.Time         `json:"decidedAt,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

type AcceptBidResponse struct {
	Project        *ProjectResponse `json:"project"`
	Bid            *BidResponse     `json:"bid"`
	RejectedBidIDs []string         `json:"rejectedBidIds"`
}

func NewBidResponse(b *models.Bid) *BidResponse {
	milestones := []models.Milestone(b.Milestones)
	if milestones == nil {
		milestones = []models.Milestone{}
	}
	return &BidResponse{
		ID:              b.ID,
		ProjectID:       b.ProjectID,
		FreelancerID:    b.FreelancerID,
		Proposal:        b.Proposal,
		Price:           b.Price,
		DeliveryDays:    b.DeliveryDays,
		Status:          string(b.Status),
		Milestones:      milestones,
		ModerationScore: b.ModerationScore,
		DecidedAt:       b.DecidedAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func NewBidResponses(bids []models.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for i := range bids {
		out = append(out, *NewBidResponse(&bids[i]))
	}
	return out
}
