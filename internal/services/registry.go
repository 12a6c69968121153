package services

import (
	"freelance_backend/internal/moderation"
	"freelance_backend/internal/notify"
	"freelance_backend/internal/repositories"
	"freelance_backend/internal/storage"
)

// Dependencies - внешние зависимости сервисного слоя
type Dependencies struct {
	Storage   storage.Storage
	Moderator moderation.Moderator
	Notifier  notify.Notifier
	Upload    UploadPolicy
}

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	ModerationService ModerationService
	ProjectService    ProjectService
	BidService        BidService
	AcceptanceService AcceptanceService
	FavoriteService   FavoriteService
	ReviewService     ReviewService
	ChatService       ChatService

	Uploader *Uploader
	Notifier notify.Notifier
}

// Repositories - набор репозиториев; в тестах отдельные можно подменить
type Repositories struct {
	Projects  repositories.ProjectRepository
	Bids      repositories.BidRepository
	Favorites repositories.FavoriteRepository
	Reviews   repositories.ReviewRepository
	Chat      repositories.ChatRepository
}

func NewRepositories() Repositories {
	return Repositories{
		Projects:  repositories.NewProjectRepository(),
		Bids:      repositories.NewBidRepository(),
		Favorites: repositories.NewFavoriteRepository(),
		Reviews:   repositories.NewReviewRepository(),
		Chat:      repositories.NewChatRepository(),
	}
}

func NewServiceContainer(repos Repositories, deps Dependencies) *ServiceContainer {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.Noop{}
	}

	moderationSvc := NewModerationService(deps.Moderator)
	uploader := NewUploader(deps.Storage, deps.Upload)

	return &ServiceContainer{
		ModerationService: moderationSvc,
		ProjectService:    NewProjectService(repos.Projects, repos.Bids, repos.Favorites, moderationSvc, uploader, notifier),
		BidService:        NewBidService(repos.Bids, repos.Projects, moderationSvc, notifier),
		AcceptanceService: NewAcceptanceService(repos.Bids, repos.Projects, notifier),
		FavoriteService:   NewFavoriteService(repos.Favorites, repos.Projects),
		ReviewService:     NewReviewService(repos.Reviews, repos.Projects, repos.Bids, moderationSvc),
		ChatService:       NewChatService(repos.Chat, repos.Bids, repos.Projects, moderationSvc, uploader, notifier),
		Uploader:          uploader,
		Notifier:          notifier,
	}
}
