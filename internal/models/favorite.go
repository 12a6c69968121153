package models

import "time"

type Favorite struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UserID    string `gorm:"type:uuid;not null;uniqueIndex:ux_favorites_user_project"`
	ProjectID string `gorm:"type:uuid;not null;uniqueIndex:ux_favorites_user_project;index"`
	CreatedAt time.Time
}
