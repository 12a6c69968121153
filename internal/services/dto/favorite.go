package dto

type FavoriteRequest struct {
	ProjectID string `json:"projectId" validate:"required,uuid"`
}

type FavoriteStatusResponse struct {
	ProjectID  string `json:"projectId"`
	IsFavorite bool   `json:"isFavorite"`
}
