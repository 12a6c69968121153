package services

import (
	"context"

	"freelance_backend/internal/auth"
	"freelance_backend/internal/logger"
	"freelance_backend/internal/repositories"
	"freelance_backend/internal/services/dto"
	"freelance_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type FavoriteService interface {
	AddFavorite(ctx context.Context, db *gorm.DB, actor auth.Actor, projectID string) (*dto.FavoriteStatusResponse, error)
	RemoveFavorite(ctx context.Context, db *gorm.DB, actor auth.Actor, projectID string) (*dto.FavoriteStatusResponse, error)
	CheckFavorite(ctx context.Context, db *gorm.DB, actor auth.Actor, projectID string) (*dto.FavoriteStatusResponse, error)
	ListFavorites(ctx context.Context, db *gorm.DB, actor auth.Actor, page, pageSize int) (*dto.PageResponse[dto.ProjectResponse], error)
}

type favoriteService struct {
	favoriteRepo repositories.FavoriteRepository
	projectRepo  repositories.ProjectRepository
}

func NewFavoriteService(favoriteRepo repositories.FavoriteRepository, projectRepo repositories.ProjectRepository) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		projectRepo:  projectRepo,
	}
}

// AddFavorite идемпотентен: повторное добавление не создает дубликат
func (s *favoriteService) AddFavorite(ctx context.Context, db *gorm.DB, actor auth.Actor, projectID string) (*dto.FavoriteStatusResponse, error) {
	if actor.ID == "" {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	if _, err := s.projectRepo.FindProjectByID(db, projectID); err != nil {
		return nil, handleRepoError(err, "project")
	}

	created, err := s.favoriteRepo.AddFavorite(db, actor.ID, projectID)
	if err != nil {
		return nil, handleRepoError(err, "favorite")
	}
	if created {
		logger.CtxDebug(ctx, "Favorite added", "project_id", projectID)
	}
	return &dto.FavoriteStatusResponse{ProjectID: projectID, IsFavorite: true}, nil
}

func (s *favoriteService) RemoveFavorite(ctx context.Context, db *gorm.DB, actor auth.Actor, projectID string) (*dto.FavoriteStatusResponse, error) {
	if actor.ID == "" {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	if _, err := s.favoriteRepo.RemoveFavorite(db, actor.ID, projectID); err != nil {
		return nil, handleRepoError(err, "favorite")
	}
	return &dto.FavoriteStatusResponse{ProjectID: projectID, IsFavorite: false}, nil
}

func (s *favoriteService) CheckFavorite(ctx context.Context, db *gorm.DB, actor auth.Actor, projectID string) (*dto.FavoriteStatusResponse, error) {
	if actor.ID == "" {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	ok, err := s.favoriteRepo.IsFavorite(db, actor.ID, projectID)
	if err != nil {
		return nil, handleRepoError(err, "favorite")
	}
	return &dto.FavoriteStatusResponse{ProjectID: projectID, IsFavorite: ok}, nil
}

func (s *favoriteService) ListFavorites(ctx context.Context, db *gorm.DB, actor auth.Actor, page, pageSize int) (*dto.PageResponse[dto.ProjectResponse], error) {
	if actor.ID == "" {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	page, pageSize = normalizePage(page, pageSize)
	projects, total, err := s.favoriteRepo.ListFavoriteProjects(db, actor.ID, page, pageSize)
	if err != nil {
		return nil, handleRepoError(err, "favorite")
	}
	return dto.NewPage(dto.NewProjectResponses(projects), total, page, pageSize), nil
}
