package models

import (
	"time"

	"gorm.io/datatypes"
)

type Project struct {
	BaseModel
	ClientID            string `gorm:"type:uuid;not null;index"`
	Title               string `gorm:"size:200;not null"`
	Description         string `gorm:"type:text;not null"`
	DetailedDescription string `gorm:"type:text"`
	Category            string `gorm:"size:100;not null;index"`
	Subcategory         string `gorm:"size:100"`
	Skills              datatypes.JSONSlice[string]
	BudgetAmount        *float64
	BudgetType          BudgetType       `gorm:"size:20;not null;default:'fixed'"`
	Currency            string           `gorm:"size:3;not null;default:'KZT'"`
	Status              ProjectStatus    `gorm:"size:20;not null;default:'draft';index"`
	ModerationStatus    ModerationStatus `gorm:"size:20;not null;default:'unverified'"`
	ModerationScore     int
	ModerationNote      string
	IsRemote            bool
	City                string
	Country             string
	Address             string
	Deadline            *time.Time
	Images              datatypes.JSONSlice[string]
	Attachments         datatypes.JSONSlice[ProjectAttachment]
	IsUrgent            bool
	IsFeatured          bool
	ProposalsCount      int
	ViewsCount          int
	AcceptedBidID       *string `gorm:"type:uuid"`
	PublishedAt         *time.Time
	DeletedAt           *time.Time
}

// ProjectAttachment - файл проекта в объектном хранилище
type ProjectAttachment struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}
