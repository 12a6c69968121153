package repositories

import (
	"errors"
	"time"

	"freelance_backend/internal/models"

	"gorm.io/gorm"
)

type BidFilter struct {
	ProjectID    string
	FreelancerID string
	Status       models.BidStatus
}

type BidRepository interface {
	CreateBid(db *gorm.DB, bid *models.Bid) error
	FindBidByID(db *gorm.DB, id string) (*models.Bid, error)
	FindActiveBid(db *gorm.DB, projectID, freelancerID string) (*models.Bid, error)
	ListBids(db *gorm.DB, filter BidFilter) ([]models.Bid, error)
	TransitionStatus(db *gorm.DB, id string, from, to models.BidStatus, at time.Time) (bool, error)
	RejectOtherPending(db *gorm.DB, projectID, exceptID string, at time.Time) ([]models.Bid, error)
	DeleteByProject(db *gorm.DB, projectID string) error
}

type BidRepositoryImpl struct{}

func NewBidRepository() BidRepository {
	return &BidRepositoryImpl{}
}

func (r *BidRepositoryImpl) CreateBid(db *gorm.DB, bid *models.Bid) error {
	if err := db.Create(bid).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *BidRepositoryImpl) FindBidByID(db *gorm.DB, id string) (*models.Bid, error) {
	var bid models.Bid
	if err := db.First(&bid, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBidNotFound
		}
		return nil, err
	}
	return &bid, nil
}

// FindActiveBid возвращает не отозванный отклик пары (проект, фрилансер) или nil
func (r *BidRepositoryImpl) FindActiveBid(db *gorm.DB, projectID, freelancerID string) (*models.Bid, error) {
	var bids []models.Bid
	err := db.Where("project_id = ? AND freelancer_id = ? AND status <> ?",
		projectID, freelancerID, models.BidStatusWithdrawn).
		Limit(1).Find(&bids).Error
	if err != nil {
		return nil, err
	}
	if len(bids) == 0 {
		return nil, nil
	}
	return &bids[0], nil
}

// ListBids - новые первыми, точный фильтр по статусу
func (r *BidRepositoryImpl) ListBids(db *gorm.DB, filter BidFilter) ([]models.Bid, error) {
	query := db.Model(&models.Bid{})
	if filter.ProjectID != "" {
		query = query.Where("project_id = ?", filter.ProjectID)
	}
	if filter.FreelancerID != "" {
		query = query.Where("freelancer_id = ?", filter.FreelancerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	bids := []models.Bid{}
	err := query.Order("created_at DESC").Order("id DESC").Find(&bids).Error
	return bids, err
}

// TransitionStatus - условный переход; false если отклик уже не в статусе from
func (r *BidRepositoryImpl) TransitionStatus(db *gorm.DB, id string, from, to models.BidStatus, at time.Time) (bool, error) {
	result := db.Model(&models.Bid{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"decided_at": at,
			"updated_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// RejectOtherPending отклоняет все остальные ожидающие отклики проекта и возвращает их
func (r *BidRepositoryImpl) RejectOtherPending(db *gorm.DB, projectID, exceptID string, at time.Time) ([]models.Bid, error) {
	var bids []models.Bid
	err := db.Where("project_id = ? AND id <> ? AND status = ?", projectID, exceptID, models.BidStatusPending).
		Find(&bids).Error
	if err != nil {
		return nil, err
	}
	if len(bids) == 0 {
		return []models.Bid{}, nil
	}

	ids := make([]string, 0, len(bids))
	for _, b := range bids {
		ids = append(ids, b.ID)
	}
	err = db.Model(&models.Bid{}).
		Where("id IN ? AND status = ?", ids, models.BidStatusPending).
		Updates(map[string]interface{}{
			"status":     models.BidStatusRejected,
			"decided_at": at,
			"updated_at": at,
		}).Error
	if err != nil {
		return nil, err
	}
	for i := range bids {
		bids[i].Status = models.BidStatusRejected
		bids[i].DecidedAt = &at
	}
	return bids, nil
}

func (r *BidRepositoryImpl) DeleteByProject(db *gorm.DB, projectID string) error {
	return db.Where("project_id = ?", projectID).Delete(&models.Bid{}).Error
}
