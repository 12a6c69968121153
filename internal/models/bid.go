package models

import (
	"time"

	"gorm.io/datatypes"
)

type Bid struct {
	BaseModel
	ProjectID       string    `gorm:"type:uuid;not null;index"`
	FreelancerID    string    `gorm:"type:uuid;not null;index"`
	Proposal        string    `gorm:"type:text;not null"`
	Price           float64   `gorm:"not null"`
	DeliveryDays    int       `gorm:"not null"`
	Status          BidStatus `gorm:"size:20;not null;default:'pending';index"`
	Milestones      datatypes.JSONSlice[Milestone]
	ModerationScore int
	DecidedAt       *time.Time
}

type Milestone struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Days        int     `json:"days"`
	Price       float64 `json:"price"`
}
