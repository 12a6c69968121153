package repositories

import (
	"errors"
	"strings"
	"time"

	"freelance_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectFilter struct {
	Category  string
	Search    string
	IsUrgent  *bool
	IsRemote  *bool
	BudgetMin *float64
	BudgetMax *float64
	Page      int
	PageSize  int
}

type ProjectRepository interface {
	CreateProject(db *gorm.DB, project *models.Project) error
	FindProjectByID(db *gorm.DB, id string) (*models.Project, error)
	LockProjectByID(db *gorm.DB, id string) (*models.Project, error)
	UpdateFields(db *gorm.DB, id string, expected models.ProjectStatus, updates map[string]interface{}) (bool, error)
	TransitionStatus(db *gorm.DB, id string, from, to models.ProjectStatus, extra map[string]interface{}) (bool, error)
	IncrementViews(db *gorm.DB, id string) error
	IncrementProposals(db *gorm.DB, id string) error

	ListPublished(db *gorm.DB, filter ProjectFilter) ([]models.Project, int64, error)
	ListByClient(db *gorm.DB, clientID string, page, pageSize int) ([]models.Project, int64, error)
	ListModerationQueue(db *gorm.DB, page, pageSize int) ([]models.Project, int64, error)

	DeleteProject(db *gorm.DB, id string) error
	SoftDeleteProject(db *gorm.DB, id string, at time.Time) error
}

type ProjectRepositoryImpl struct{}

func NewProjectRepository() ProjectRepository {
	return &ProjectRepositoryImpl{}
}

func (r *ProjectRepositoryImpl) CreateProject(db *gorm.DB, project *models.Project) error {
	return db.Create(project).Error
}

// FindProjectByID не возвращает проекты со статусом deleted
func (r *ProjectRepositoryImpl) FindProjectByID(db *gorm.DB, id string) (*models.Project, error) {
	var project models.Project
	err := db.Where("id = ? AND status <> ?", id, models.ProjectStatusDeleted).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// LockProjectByID - SELECT ... FOR UPDATE, вызывать только внутри транзакции
func (r *ProjectRepositoryImpl) LockProjectByID(db *gorm.DB, id string) (*models.Project, error) {
	var project models.Project
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND status <> ?", id, models.ProjectStatusDeleted).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// UpdateFields обновляет поля, только если статус проекта не изменился с момента чтения
func (r *ProjectRepositoryImpl) UpdateFields(db *gorm.DB, id string, expected models.ProjectStatus, updates map[string]interface{}) (bool, error) {
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	result := db.Model(&models.Project{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// TransitionStatus - условное обновление статуса; false если статус уже другой
func (r *ProjectRepositoryImpl) TransitionStatus(db *gorm.DB, id string, from, to models.ProjectStatus, extra map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	for k, v := range extra {
		updates[k] = v
	}

	result := db.Model(&models.Project{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// IncrementViews атомарно увеличивает счетчик просмотров
func (r *ProjectRepositoryImpl) IncrementViews(db *gorm.DB, id string) error {
	result := db.Model(&models.Project{}).
		Where("id = ? AND status <> ?", id, models.ProjectStatusDeleted).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepositoryImpl) IncrementProposals(db *gorm.DB, id string) error {
	return db.Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("proposals_count", gorm.Expr("proposals_count + ?", 1)).Error
}

func (r *ProjectRepositoryImpl) ListPublished(db *gorm.DB, filter ProjectFilter) ([]models.Project, int64, error) {
	query := db.Model(&models.Project{}).Where("status = ?", models.ProjectStatusPublished)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filter.IsUrgent != nil {
		query = query.Where("is_urgent = ?", *filter.IsUrgent)
	}
	if filter.IsRemote != nil {
		query = query.Where("is_remote = ?", *filter.IsRemote)
	}
	if filter.BudgetMin != nil {
		query = query.Where("budget_amount >= ?", *filter.BudgetMin)
	}
	if filter.BudgetMax != nil {
		query = query.Where("budget_amount <= ?", *filter.BudgetMax)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	err := query.Order("is_featured DESC").Order("published_at DESC").Order("created_at DESC").
		Limit(filter.PageSize).Offset(offset(filter.Page, filter.PageSize)).
		Find(&projects).Error
	return projects, total, err
}

func (r *ProjectRepositoryImpl) ListByClient(db *gorm.DB, clientID string, page, pageSize int) ([]models.Project, int64, error) {
	query := db.Model(&models.Project{}).
		Where("client_id = ? AND status <> ?", clientID, models.ProjectStatusDeleted)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	err := query.Order("created_at DESC").Limit(pageSize).Offset(offset(page, pageSize)).Find(&projects).Error
	return projects, total, err
}

// ListModerationQueue - проекты, ожидающие модерации, старые первыми
func (r *ProjectRepositoryImpl) ListModerationQueue(db *gorm.DB, page, pageSize int) ([]models.Project, int64, error) {
	query := db.Model(&models.Project{}).Where("status = ?", models.ProjectStatusPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	err := query.Order("updated_at ASC").Limit(pageSize).Offset(offset(page, pageSize)).Find(&projects).Error
	return projects, total, err
}

// DeleteProject удаляет строку проекта. Зависимые записи удаляет сервис в той же транзакции
func (r *ProjectRepositoryImpl) DeleteProject(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepositoryImpl) SoftDeleteProject(db *gorm.DB, id string, at time.Time) error {
	return db.Model(&models.Project{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     models.ProjectStatusDeleted,
		"deleted_at": at,
		"updated_at": at,
	}).Error
}
