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

	"gorm.io/gorm"
)

// AcceptanceService - принятие отклика: отклик accepted, остальные ожидающие rejected,
// проект published -> in_progress. Все в одной транзакции
type AcceptanceService interface {
	AcceptBid(ctx context.Context, db *gorm.DB, actor auth.Actor, bidID string) (*dto.AcceptBidResponse, error)
}

type acceptanceService struct {
	bidRepo     repositories.BidRepository
	projectRepo repositories.ProjectRepository
	notifier    notify.Notifier
}

func NewAcceptanceService(
	bidRepo repositories.BidRepository,
	projectRepo repositories.ProjectRepository,
	notifier notify.Notifier,
) AcceptanceService {
	return &acceptanceService{
		bidRepo:     bidRepo,
		projectRepo: projectRepo,
		notifier:    notifier,
	}
}

type acceptOutcome struct {
	project  *models.Project
	bid      *models.Bid
	rejected []models.Bid
}

func (s *acceptanceService) AcceptBid(ctx context.Context, db *gorm.DB, actor auth.Actor, bidID string) (*dto.AcceptBidResponse, error) {
	out, err := s.accept(db, actor, bidID)
	if err != nil {
		metrics.IncrementAcceptAttempt(acceptOutcomeLabel(err))
		logger.CtxWarn(ctx, "Bid acceptance failed", "bid_id", bidID, "error", err.Error())
		return nil, err
	}

	metrics.IncrementAcceptAttempt("accepted")
	metrics.IncrementBidTransition(string(models.BidStatusAccepted))

	rejectedIDs := make([]string, 0, len(out.rejected))
	for _, b := range out.rejected {
		rejectedIDs = append(rejectedIDs, b.ID)
		metrics.IncrementBidTransition(string(models.BidStatusRejected))
	}

	logger.CtxInfo(ctx, "Bid accepted",
		"bid_id", out.bid.ID,
		"project_id", out.project.ID,
		"rejected", len(rejectedIDs),
	)

	resp := &dto.AcceptBidResponse{
		Project:        dto.NewProjectResponse(out.project),
		Bid:            dto.NewBidResponse(out.bid),
		RejectedBidIDs: rejectedIDs,
	}

	// Уведомления только после коммита
	publishEvent(ctx, s.notifier, notify.NewEvent(notify.EventBidAccepted, resp, out.bid.FreelancerID))
	for i := range out.rejected {
		publishEvent(ctx, s.notifier, notify.NewEvent(notify.EventBidRejected,
			dto.NewBidResponse(&out.rejected[i]), out.rejected[i].FreelancerID))
	}

	return resp, nil
}

func (s *acceptanceService) accept(db *gorm.DB, actor auth.Actor, bidID string) (*acceptOutcome, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, handleRepoError(tx.Error, "bid")
	}
	defer tx.Rollback()

	bid, err := s.bidRepo.FindBidByID(tx, bidID)
	if err != nil {
		return nil, handleRepoError(err, "bid")
	}
	if bid.Status != models.BidStatusPending {
		return nil, apperrors.ErrBidNotPending.WithDetails(map[string]string{"status": string(bid.Status)})
	}

	project, err := s.projectRepo.FindProjectByID(tx, bid.ProjectID)
	if err != nil {
		return nil, handleRepoError(err, "project")
	}
	if err := auth.Authorize(actor, auth.ActionBidAccept, auth.Resource{OwnerID: project.ClientID}); err != nil {
		return nil, err
	}
	if project.Status != models.ProjectStatusPublished {
		return nil, apperrors.ErrProjectNotOpen.WithDetails(map[string]string{"status": string(project.Status)})
	}

	locked, err := s.projectRepo.LockProjectByID(tx, project.ID)
	if err != nil {
		return nil, handleRepoError(err, "project")
	}
	if locked.Status != project.Status {
		return nil, apperrors.ErrAcceptConflict
	}

	now := time.Now()
	ok, err := s.bidRepo.TransitionStatus(tx, bid.ID, models.BidStatusPending, models.BidStatusAccepted, now)
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, apperrors.ErrAcceptConflict
		}
		return nil, handleRepoError(err, "bid")
	}
	if !ok {
		return nil, apperrors.ErrAcceptConflict
	}

	rejected, err := s.bidRepo.RejectOtherPending(tx, project.ID, bid.ID, now)
	if err != nil {
		return nil, handleRepoError(err, "bid")
	}

	ok, err = s.projectRepo.TransitionStatus(tx, project.ID, models.ProjectStatusPublished, models.ProjectStatusInProgress,
		map[string]interface{}{"accepted_bid_id": bid.ID})
	if err != nil {
		return nil, handleRepoError(err, "project")
	}
	if !ok {
		return nil, apperrors.ErrAcceptConflict
	}

	if err := tx.Commit().Error; err != nil {
		return nil, handleRepoError(err, "bid")
	}

	bid.Status = models.BidStatusAccepted
	bid.DecidedAt = &now
	bid.UpdatedAt = now

	locked.Status = models.ProjectStatusInProgress
	locked.AcceptedBidID = &bid.ID

	return &acceptOutcome{project: locked, bid: bid, rejected: rejected}, nil
}

func acceptOutcomeLabel(err error) string {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return "error"
	}
	switch appErr.Code {
	case apperrors.CodeConflict:
		return "conflict"
	case apperrors.CodeInvalidState:
		return "invalid_state"
	case apperrors.CodeForbidden, apperrors.CodeUnauthorized:
		return "forbidden"
	case apperrors.CodeNotFound:
		return "not_found"
	}
	return "error"
}
