package chat

import "time"

type Message struct {
	ID         string  `gorm:"primaryKey;type:uuid"`
	RoomID     string  `gorm:"size:120;index;not null"`
	BidID      *string `gorm:"type:uuid;index"`
	SenderID   string  `gorm:"type:uuid;index;not null"`
	ReceiverID *string `gorm:"type:uuid;index"`
	Type       string  `gorm:"size:10;not null;default:'text'"` // text, image, file, voice
	Content    string  `gorm:"type:text"`
	PayloadURL *string
	IsRead     bool `gorm:"not null;default:false"`
	ReadAt     *time.Time
	CreatedAt  time.Time `gorm:"index"`

	Reactions []MessageReaction `gorm:"foreignKey:MessageID"`
}

func (Message) TableName() string {
	return "chat_messages"
}
