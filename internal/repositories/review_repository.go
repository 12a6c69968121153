package repositories

import (
	"errors"
	"time"

	"freelance_backend/internal/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	CreateReview(db *gorm.DB, review *models.Review) error
	FindReviewByID(db *gorm.DB, id string) (*models.Review, error)
	ExistsForProject(db *gorm.DB, reviewerID, projectID string) (bool, error)
	SetReply(db *gorm.DB, id, reply string, at time.Time) (bool, error)
	SetVerified(db *gorm.DB, id string, verified bool) error
	ListByTarget(db *gorm.DB, targetID string, verifiedOnly bool, page, pageSize int) ([]models.Review, int64, error)
	GetUserRating(db *gorm.DB, targetID string) (*models.UserRating, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) CreateReview(db *gorm.DB, review *models.Review) error {
	return db.Create(review).Error
}

func (r *ReviewRepositoryImpl) FindReviewByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	if err := db.First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) ExistsForProject(db *gorm.DB, reviewerID, projectID string) (bool, error) {
	var count int64
	err := db.Model(&models.Review{}).
		Where("reviewer_id = ? AND project_id = ?", reviewerID, projectID).
		Count(&count).Error
	return count > 0, err
}

// SetReply записывает ответ только если его еще нет
func (r *ReviewRepositoryImpl) SetReply(db *gorm.DB, id, reply string, at time.Time) (bool, error) {
	result := db.Model(&models.Review{}).
		Where("id = ? AND reply IS NULL", id).
		Updates(map[string]interface{}{
			"reply":      reply,
			"replied_at": at,
			"updated_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *ReviewRepositoryImpl) SetVerified(db *gorm.DB, id string, verified bool) error {
	result := db.Model(&models.Review{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_verified": verified, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepositoryImpl) ListByTarget(db *gorm.DB, targetID string, verifiedOnly bool, page, pageSize int) ([]models.Review, int64, error) {
	query := db.Model(&models.Review{}).Where("target_id = ?", targetID)
	if verifiedOnly {
		query = query.Where("is_verified = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	reviews := []models.Review{}
	err := query.Order("created_at DESC").Limit(pageSize).Offset(offset(page, pageSize)).Find(&reviews).Error
	return reviews, total, err
}

type ratingRow struct {
	AverageRating    float64
	TotalReviews     int64
	QualityAvg       *float64
	DeadlineAvg      *float64
	CommunicationAvg *float64
	PriceAvg         *float64
}

// GetUserRating считает агрегат только по проверенным отзывам
func (r *ReviewRepositoryImpl) GetUserRating(db *gorm.DB, targetID string) (*models.UserRating, error) {
	var row ratingRow
	err := db.Model(&models.Review{}).
		Select(`COALESCE(AVG(rating), 0) AS average_rating,
			COUNT(*) AS total_reviews,
			AVG(quality_score) AS quality_avg,
			AVG(deadline_score) AS deadline_avg,
			AVG(communication_score) AS communication_avg,
			AVG(price_score) AS price_avg`).
		Where("target_id = ? AND is_verified = ?", targetID, true).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &models.UserRating{
		AverageRating:    row.AverageRating,
		TotalReviews:     row.TotalReviews,
		QualityAvg:       row.QualityAvg,
		DeadlineAvg:      row.DeadlineAvg,
		CommunicationAvg: row.CommunicationAvg,
		PriceAvg:         row.PriceAvg,
	}, nil
}
