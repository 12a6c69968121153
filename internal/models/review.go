package models

import "time"

type Review struct {
	BaseModel
	ReviewerID         string  `gorm:"type:uuid;not null;index"`
	TargetID           string  `gorm:"type:uuid;not null;index"`
	ProjectID          *string `gorm:"type:uuid;index"`
	Rating             int     `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment            string  `gorm:"type:text"`
	Reply              *string `gorm:"type:text"`
	RepliedAt          *time.Time
	QualityScore       *int
	DeadlineScore      *int
	CommunicationScore *int
	PriceScore         *int
	IsVerified         bool `gorm:"not null;default:false;index"`
}

// UserRating - агрегат по проверенным отзывам
type UserRating struct {
	AverageRating    float64
	TotalReviews     int64
	QualityAvg       *float64
	DeadlineAvg      *float64
	CommunicationAvg *float64
	PriceAvg         *float64
}
