package repositories

import (
	"time"

	"freelance_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository interface {
	AddFavorite(db *gorm.DB, userID, projectID string) (bool, error)
	RemoveFavorite(db *gorm.DB, userID, projectID string) (bool, error)
	IsFavorite(db *gorm.DB, userID, projectID string) (bool, error)
	ListFavoriteProjects(db *gorm.DB, userID string, page, pageSize int) ([]models.Project, int64, error)
	CountFavorites(db *gorm.DB, userID, projectID string) (int64, error)
	DeleteByProject(db *gorm.DB, projectID string) error
}

type FavoriteRepositoryImpl struct{}

func NewFavoriteRepository() FavoriteRepository {
	return &FavoriteRepositoryImpl{}
}

// AddFavorite - INSERT ... ON CONFLICT DO NOTHING; true если строка создана
func (r *FavoriteRepositoryImpl) AddFavorite(db *gorm.DB, userID, projectID string) (bool, error) {
	fav := models.Favorite{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProjectID: projectID,
		CreatedAt: time.Now(),
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "project_id"}},
		DoNothing: true,
	}).Create(&fav)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// RemoveFavorite идемпотентен; true если строка была удалена
func (r *FavoriteRepositoryImpl) RemoveFavorite(db *gorm.DB, userID, projectID string) (bool, error) {
	result := db.Where("user_id = ? AND project_id = ?", userID, projectID).Delete(&models.Favorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *FavoriteRepositoryImpl) IsFavorite(db *gorm.DB, userID, projectID string) (bool, error) {
	count, err := r.CountFavorites(db, userID, projectID)
	return count > 0, err
}

func (r *FavoriteRepositoryImpl) CountFavorites(db *gorm.DB, userID, projectID string) (int64, error) {
	var count int64
	err := db.Model(&models.Favorite{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error
	return count, err
}

func (r *FavoriteRepositoryImpl) ListFavoriteProjects(db *gorm.DB, userID string, page, pageSize int) ([]models.Project, int64, error) {
	query := db.Model(&models.Project{}).
		Joins("JOIN favorites ON favorites.project_id = projects.id").
		Where("favorites.user_id = ? AND projects.status <> ?", userID, models.ProjectStatusDeleted)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	err := query.Order("favorites.created_at DESC").
		Limit(pageSize).Offset(offset(page, pageSize)).
		Find(&projects).Error
	return projects, total, err
}

func (r *FavoriteRepositoryImpl) DeleteByProject(db *gorm.DB, projectID string) error {
	return db.Where("project_id = ?", projectID).Delete(&models.Favorite{}).Error
}
