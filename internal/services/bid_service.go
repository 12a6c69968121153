package services

import (
	"context"
	"time"

	"freelance_backend/internal/auth"
	"freelance_backend/internal/logger"
	"freelance_backend/internal/metrics"
	"freelance_backend/internal/models"
	"freelance_backend/internal/notify"
	"freelance_backend/internal/repositories"
	"freelance_backend/internal/services/dto"
	"freelance_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BidService interface {
	SubmitBid(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.SubmitBidRequest) (*dto.BidResponse, error)
	ListProjectBids(ctx context.Context, db *gorm.DB, actor auth.Actor, projectID string, status models.BidStatus) ([]dto.BidResponse, error)
	ListMyBids(ctx context.Context, db *gorm.DB, actor auth.Actor, status models.BidStatus) ([]dto.BidResponse, error)
	GetBid(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) (*dto.BidResponse, error)
	// UpdateBidStatus - только pending -> rejected (клиент) и pending -> withdrawn (фрилансер)
	UpdateBidStatus(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, status models.BidStatus) (*dto.BidResponse, error)
}

type bidService struct {
	bidRepo     repositories.BidRepository
	projectRepo repositories.ProjectRepository
	moderation  ModerationService
	notifier    notify.Notifier
}

func NewBidService(
	bidRepo repositories.BidRepository,
	projectRepo repositories.ProjectRepository,
	moderation ModerationService,
	notifier notify.Notifier,
) BidService {
	return &bidService{
		bidRepo:     bidRepo,
		projectRepo: projectRepo,
		moderation:  moderation,
		notifier:    notifier,
	}
}

func (s *bidService) SubmitBid(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.SubmitBidRequest) (*dto.BidResponse, error) {
	if actor.ID == "" {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	if req.FreelancerID != "" && req.FreelancerID != actor.ID {
		return nil, apperrors.NewForbiddenError("You can only submit bids on your own behalf")
	}

	project, err := s.projectRepo.FindProjectByID(db, req.OrderID)
	if err != nil {
		return nil, handleRepoError(err, "project")
	}
	if err := auth.Authorize(actor, auth.ActionBidSubmit, auth.Resource{OwnerID: project.ClientID}); err != nil {
		return nil, err
	}

	verdict, err := s.moderation.CheckText(ctx, "proposal", req.Proposal, true)
	if err != nil {
		return nil, err
	}

	bid := &models.Bid{
		ProjectID:       project.ID,
		FreelancerID:    actor.ID,
		Proposal:        req.Proposal,
		Price:           req.Price,
		DeliveryDays:    req.DeliveryDays,
		Status:          models.BidStatusPending,
		Milestones:      toMilestones(req.Milestones),
		ModerationScore: verdict.Score,
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, handleRepoError(tx.Error, "bid")
	}
	defer tx.Rollback()

	locked, err := s.projectRepo.LockProjectByID(tx, project.ID)
	if err != nil {
		return nil, handleRepoError(err, "project")
	}
	if locked.Status != models.ProjectStatusPublished {
		return nil, apperrors.ErrProjectNotOpen.WithDetails(map[string]string{"status": string(locked.Status)})
	}

	active, err := s.bidRepo.FindActiveBid(tx, project.ID, actor.ID)
	if err != nil {
		return nil, handleRepoError(err, "bid")
	}
	if active != nil {
		return nil, apperrors.ErrDuplicateBid.WithDetails(map[string]string{"bidId": active.ID})
	}

	if err := s.bidRepo.CreateBid(tx, bid); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, apperrors.ErrDuplicateBid
		}
		return nil, handleRepoError(err, "bid")
	}
	if err := s.projectRepo.IncrementProposals(tx, project.ID); err != nil {
		return nil, handleRepoError(err, "project")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, handleRepoError(err, "bid")
	}

	metrics.IncrementBidTransition(string(models.BidStatusPending))
	logger.CtxInfo(ctx, "Bid submitted", "bid_id", bid.ID, "project_id", project.ID, "freelancer_id", actor.ID)

	resp := dto.NewBidResponse(bid)
	publishEvent(ctx, s.notifier, notify.NewEvent(notify.EventBidSubmitted, resp, project.ClientID))
	return resp, nil
}

// ListProjectBids: владелец проекта и админ видят все отклики, остальные только свои
func (s *bidService) ListProjectBids(ctx context.Context, db *gorm.DB, actor auth.Actor, projectID string, status models.BidStatus) ([]dto.BidResponse, error) {
	if actor.ID == "" {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	project, err := s.projectRepo.FindProjectByID(db, projectID)
	if err != nil {
		return nil, handleRepoError(err, "project")
	}

	filter := repositories.BidFilter{ProjectID: project.ID, Status: status}
	if err := auth.Authorize(actor, auth.ActionProjectBidsAll, auth.Resource{OwnerID: project.ClientID}); err != nil {
		filter.FreelancerID = actor.ID
	}

	bids, err := s.bidRepo.ListBids(db, filter)
	if err != nil {
		return nil, handleRepoError(err, "bid")
	}
	return dto.NewBidResponses(bids), nil
}

func (s *bidService) ListMyBids(ctx context.Context, db *gorm.DB, actor auth.Actor, status models.BidStatus) ([]dto.BidResponse, error) {
	if actor.ID == "" {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	bids, err := s.bidRepo.ListBids(db, repositories.BidFilter{FreelancerID: actor.ID, Status: status})
	if err != nil {
		return nil, handleRepoError(err, "bid")
	}
	return dto.NewBidResponses(bids), nil
}

func (s *bidService) GetBid(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) (*dto.BidResponse, error) {
	bid, project, err := s.loadBid(db, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionBidView, auth.Resource{
		OwnerID:        bid.FreelancerID,
		ParticipantIDs: []string{project.ClientID},
	}); err != nil {
		return nil, err
	}
	return dto.NewBidResponse(bid), nil
}

func (s *bidService) UpdateBidStatus(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, status models.BidStatus) (*dto.BidResponse, error) {
	switch status {
	case models.BidStatusAccepted:
		return nil, apperrors.ErrAcceptViaOrchestrator
	case models.BidStatusRejected, models.BidStatusWithdrawn:
	default:
		return nil, apperrors.NewInvalidStateError("bid", "Bid cannot be moved to this status")
	}

	bid, project, err := s.loadBid(db, id)
	if err != nil {
		return nil, err
	}
	if bid.Status != models.BidStatusPending {
		return nil, apperrors.ErrBidNotPending.WithDetails(map[string]string{"status": string(bid.Status)})
	}

	var (
		recipient string
		event     notify.EventType
	)
	if status == models.BidStatusRejected {
		if err := auth.Authorize(actor, auth.ActionBidReject, auth.Resource{OwnerID: project.ClientID}); err != nil {
			return nil, err
		}
		recipient, event = bid.FreelancerID, notify.EventBidRejected
	} else {
		if err := auth.Authorize(actor, auth.ActionBidWithdraw, auth.Resource{OwnerID: bid.FreelancerID}); err != nil {
			return nil, err
		}
		recipient, event = project.ClientID, notify.EventBidWithdrawn
	}

	now := time.Now()
	ok, err := s.bidRepo.TransitionStatus(db, bid.ID, models.BidStatusPending, status, now)
	if err != nil {
		return nil, handleRepoError(err, "bid")
	}
	if !ok {
		return nil, apperrors.ErrBidNotPending
	}

	bid.Status = status
	bid.DecidedAt = &now
	metrics.IncrementBidTransition(string(status))
	logger.CtxInfo(ctx, "Bid status changed", "bid_id", bid.ID, "status", status, "actor_id", actor.ID)

	resp := dto.NewBidResponse(bid)
	publishEvent(ctx, s.notifier, notify.NewEvent(event, resp, recipient))
	return resp, nil
}

func (s *bidService) loadBid(db *gorm.DB, id string) (*models.Bid, *models.Project, error) {
	bid, err := s.bidRepo.FindBidByID(db, id)
	if err != nil {
		return nil, nil, handleRepoError(err, "bid")
	}
	project, err := s.projectRepo.FindProjectByID(db, bid.ProjectID)
	if err != nil {
		return nil, nil, handleRepoError(err, "project")
	}
	return bid, project, nil
}

func toMilestones(in []dto.MilestoneRequest) datatypes.JSONSlice[models.Milestone] {
	out := datatypes.JSONSlice[models.Milestone]{}
	for _, m := range in {
		out = append(out, models.Milestone{
			Title:       m.Title,
			Description: m.Description,
			Days:        m.Days,
			Price:       m.Price,
		})
	}
	return out
}
