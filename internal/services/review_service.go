package services

import (
	"context"
	"strings"
	"time"

	"freelance_backend/internal/auth"
	"freelance_backend/internal/logger"
	"freelance_backend/internal/models"
	"freelance_backend/internal/repositories"
	"freelance_backend/internal/services/dto"
	"freelance_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReviewService interface {
	CreateReview(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	ReplyToReview(ctx context.Context, db *gorm.DB, actor auth.Actor, reviewID, reply string) (*dto.ReviewResponse, error)
	ListUserReviews(ctx context.Context, db *gorm.DB, userID string, page, pageSize int) (*dto.PageResponse[dto.ReviewResponse], error)
	GetUserRating(ctx context.Context, db *gorm.DB, userID string) (*dto.UserRatingResponse, error)

	// Admin
	VerifyReview(ctx context.Context, db *gorm.DB, actor auth.Actor, reviewID string, verified bool) (*dto.ReviewResponse, error)
}

type reviewService struct {
	reviewRepo  repositories.ReviewRepository
	projectRepo repositories.ProjectRepository
	bidRepo     repositories.BidRepository
	moderation  ModerationService
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	projectRepo repositories.ProjectRepository,
	bidRepo repositories.BidRepository,
	moderation ModerationService,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		projectRepo: projectRepo,
		bidRepo:     bidRepo,
		moderation:  moderation,
	}
}

// ---------------- Review Operations ----------------

func (s *reviewService) CreateReview(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if actor.ID == "" {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	if actor.ID == req.TargetID {
		return nil, apperrors.ErrSelfReview
	}

	comment := strings.TrimSpace(req.Comment)
	if comment != "" {
		if _, err := s.moderation.CheckText(ctx, "comment", comment, false); err != nil {
			return nil, err
		}
	}

	verified := false
	if req.ProjectID != nil {
		project, err := s.projectRepo.FindProjectByID(db, *req.ProjectID)
		if err != nil {
			return nil, handleRepoError(err, "project")
		}
		exists, err := s.reviewRepo.ExistsForProject(db, actor.ID, project.ID)
		if err != nil {
			return nil, handleRepoError(err, "review")
		}
		if exists {
			return nil, apperrors.NewConflictError("review", "You have already reviewed this project")
		}
		verified, err = s.isProjectParticipants(db, project, actor.ID, req.TargetID)
		if err != nil {
			return nil, err
		}
	}

	review := &models.Review{
		ReviewerID:         actor.ID,
		TargetID:           req.TargetID,
		ProjectID:          req.ProjectID,
		Rating:             req.Rating,
		Comment:            comment,
		QualityScore:       req.QualityScore,
		DeadlineScore:      req.DeadlineScore,
		CommunicationScore: req.CommunicationScore,
		PriceScore:         req.PriceScore,
		IsVerified:         verified,
	}
	if err := s.reviewRepo.CreateReview(db, review); err != nil {
		return nil, handleRepoError(err, "review")
	}

	logger.CtxInfo(ctx, "Review created", "review_id", review.ID, "target_id", review.TargetID, "verified", verified)
	return dto.NewReviewResponse(review), nil
}

// isProjectParticipants: отзыв подтверждается автоматически, если проект завершен,
// а автор и адресат - клиент и принятый фрилансер
func (s *reviewService) isProjectParticipants(db *gorm.DB, project *models.Project, reviewerID, targetID string) (bool, error) {
	if project.Status != models.ProjectStatusCompleted || project.AcceptedBidID == nil {
		return false, nil
	}
	bid, err := s.bidRepo.FindBidByID(db, *project.AcceptedBidID)
	if err != nil {
		if err == repositories.ErrBidNotFound {
			return false, nil
		}
		return false, handleRepoError(err, "bid")
	}
	pair := map[string]bool{project.ClientID: true, bid.FreelancerID: true}
	return reviewerID != targetID && pair[reviewerID] && pair[targetID], nil
}

func (s *reviewService) ReplyToReview(ctx context.Context, db *gorm.DB, actor auth.Actor, reviewID, reply string) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindReviewByID(db, reviewID)
	if err != nil {
		return nil, handleRepoError(err, "review")
	}
	if err := auth.Authorize(actor, auth.ActionReviewReply, auth.Resource{OwnerID: review.TargetID}); err != nil {
		return nil, err
	}
	if review.Reply != nil {
		return nil, apperrors.ErrReviewAlreadyReplied
	}

	reply = strings.TrimSpace(reply)
	if _, err := s.moderation.CheckText(ctx, "reply", reply, false); err != nil {
		return nil, err
	}

	now := time.Now()
	ok, err := s.reviewRepo.SetReply(db, review.ID, reply, now)
	if err != nil {
		return nil, handleRepoError(err, "review")
	}
	if !ok {
		return nil, apperrors.ErrReviewAlreadyReplied
	}

	review.Reply = &reply
	review.RepliedAt = &now
	return dto.NewReviewResponse(review), nil
}

func (s *reviewService) ListUserReviews(ctx context.Context, db *gorm.DB, userID string, page, pageSize int) (*dto.PageResponse[dto.ReviewResponse], error) {
	page, pageSize = normalizePage(page, pageSize)
	reviews, total, err := s.reviewRepo.ListByTarget(db, userID, false, page, pageSize)
	if err != nil {
		return nil, handleRepoError(err, "review")
	}
	items := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, *dto.NewReviewResponse(&reviews[i]))
	}
	return dto.NewPage(items, total, page, pageSize), nil
}

// ---------------- Rating ----------------

func (s *reviewService) GetUserRating(ctx context.Context, db *gorm.DB, userID string) (*dto.UserRatingResponse, error) {
	rating, err := s.reviewRepo.GetUserRating(db, userID)
	if err != nil {
		return nil, handleRepoError(err, "review")
	}
	return &dto.UserRatingResponse{
		UserID:           userID,
		AverageRating:    rating.AverageRating,
		TotalReviews:     rating.TotalReviews,
		QualityAvg:       rating.QualityAvg,
		DeadlineAvg:      rating.DeadlineAvg,
		CommunicationAvg: rating.CommunicationAvg,
		PriceAvg:         rating.PriceAvg,
	}, nil
}

// ---------------- Admin ----------------

func (s *reviewService) VerifyReview(ctx context.Context, db *gorm.DB, actor auth.Actor, reviewID string, verified bool) (*dto.ReviewResponse, error) {
	if err := auth.Authorize(actor, auth.ActionReviewVerify, auth.Resource{}); err != nil {
		return nil, err
	}
	if err := s.reviewRepo.SetVerified(db, reviewID, verified); err != nil {
		return nil, handleRepoError(err, "review")
	}
	review, err := s.reviewRepo.FindReviewByID(db, reviewID)
	if err != nil {
		return nil, handleRepoError(err, "review")
	}
	logger.CtxInfo(ctx, "Review verification changed", "review_id", reviewID, "verified", verified, "actor_id", actor.ID)
	return dto.NewReviewResponse(review), nil
}
