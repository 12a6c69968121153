package chat

import "time"

type MessageReaction struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	MessageID string `gorm:"type:uuid;not null;uniqueIndex:ux_reaction_user_emoji"`
	UserID    string `gorm:"type:uuid;not null;uniqueIndex:ux_reaction_user_emoji"`
	Emoji     string `gorm:"size:16;not null;uniqueIndex:ux_reaction_user_emoji"`
	CreatedAt time.Time
}

func (MessageReaction) TableName() string {
	return "chat_message_reactions"
}
