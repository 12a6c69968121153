package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	ProjectHandler    *ProjectHandler
	BidHandler        *BidHandler
	FavoriteHandler   *FavoriteHandler
	ModerationHandler *ModerationHandler
	ReviewHandler     *ReviewHandler
	ChatHandler       *ChatHandler
	AdminHandler      *AdminHandler
	WSHandler         *WSHandler
	HealthHandler     *HealthHandler
}
