package dto

import (
	"time"

	"freelance_backend/internal/models"
)

type CreateReviewRequest struct {
	TargetID           string  `json:"targetId" validate:"required,uuid"`
	ProjectID          *string `json:"projectId" validate:"omitempty,uuid"`
	Rating             int     `json:"rating" validate:"required,min=1,max=5"`
	Comment            string  `json:"comment" validate:"omitempty,max=2000"`
	QualityScore       *int    `json:"qualityScore" validate:"omitempty,min=1,max=5"`
	DeadlineScore      *int    `json:"deadlineScore" validate:"omitempty,min=1,max=5"`
	CommunicationScore *int    `json:"communicationScore" validate:"omitempty,min=1,max=5"`
	PriceScore         *int    `json:"priceScore" validate:"omitempty,min=1,max=5"`
}

type ReplyReviewRequest struct {
	Reply string `json:"reply" validate:"required,notblank,max=2000"`
}

type VerifyReviewRequest struct {
	IsVerified bool `json:"isVerified"`
}

type ReviewResponse struct {
	ID                 string     `json:"id"`
	ReviewerID         string     `json:"reviewerId"`
	TargetID           string     `json:"targetId"`
	ProjectID          *string    `json:"projectId,omitempty"`
	Rating             int        `json:"rating"`
	Comment            string     `json:"comment"`
	Reply              *string    `json:"reply,omitempty"`
	RepliedAt          *time.Time `json:"repliedAt,omitempty"`
	QualityScore       *int       `json:"qualityScore,omitempty"`
	DeadlineScore      *int       `json:"deadlineScore,omitempty"`
	CommunicationScore *int       `json:"communicationScore,omitempty"`
	PriceScore         *int       `json:"priceScore,omitempty"`
	IsVerified         bool       `json:"isVerified"`
	CreatedAt          time.Time  `json:"createdAt"`
}

type UserRatingResponse struct {
	UserID           string   `json:"userId"`
	AverageRating    float64  `json:"averageRating"`
	TotalReviews     int64    `json:"totalReviews"`
	QualityAvg       *float64 `json:"qualityAvg"`
	DeadlineAvg      *float64 `json:"deadlineAvg"`
	CommunicationAvg *float64 `json:"communicationAvg"`
	PriceAvg         *float64 `json:"priceAvg"`
}

func NewReviewResponse(r *models.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:                 r.ID,
		ReviewerID:         r.ReviewerID,
		TargetID:           r.TargetID,
		ProjectID:          r.ProjectID,
		Rating:             r.Rating,
		Comment:            r.Comment,
		Reply:              r.Reply,
		RepliedAt:          r.RepliedAt,
		QualityScore:       r.QualityScore,
		DeadlineScore:      r.DeadlineScore,
		CommunicationScore: r.CommunicationScore,
		PriceScore:         r.PriceScore,
		IsVerified:         r.IsVerified,
		CreatedAt:          r.CreatedAt,
	}
}
