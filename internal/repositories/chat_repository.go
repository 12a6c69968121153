package repositories

import (
	"errors"
	"sort"
	"time"

	"freelance_backend/internal/models/chat"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomSummary - комната чата с последним сообщением
type RoomSummary struct {
	RoomID      string
	LastMessage chat.Message
	UnreadCount int64
}

type ChatRepository interface {
	CreateMessage(db *gorm.DB, msg *chat.Message) error
	FindMessageByID(db *gorm.DB, id string) (*chat.Message, error)
	ListRoomMessages(db *gorm.DB, roomID string, before *time.Time, limit int) ([]chat.Message, error)
	ListRooms(db *gorm.DB, userID string) ([]RoomSummary, error)
	MarkMessageRead(db *gorm.DB, id, readerID string, at time.Time) (bool, error)
	MarkRoomRead(db *gorm.DB, roomID, readerID string, at time.Time) (int64, error)
	AddReaction(db *gorm.DB, messageID, userID, emoji string) (bool, error)
	ListReactions(db *gorm.DB, messageIDs []string) ([]chat.MessageReaction, error)
}

type ChatRepositoryImpl struct{}

func NewChatRepository() ChatRepository {
	return &ChatRepositoryImpl{}
}

func (r *ChatRepositoryImpl) CreateMessage(db *gorm.DB, msg *chat.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	return db.Create(msg).Error
}

func (r *ChatRepositoryImpl) FindMessageByID(db *gorm.DB, id string) (*chat.Message, error) {
	var msg chat.Message
	if err := db.Preload("Reactions").First(&msg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// ListRoomMessages - последние сообщения комнаты в хронологическом порядке
func (r *ChatRepositoryImpl) ListRoomMessages(db *gorm.DB, roomID string, before *time.Time, limit int) ([]chat.Message, error) {
	query := db.Preload("Reactions").Where("room_id = ?", roomID)
	if before != nil {
		query = query.Where("created_at < ?", *before)
	}

	messages := []chat.Message{}
	if err := query.Order("created_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *ChatRepositoryImpl) ListRooms(db *gorm.DB, userID string) ([]RoomSummary, error) {
	var roomIDs []string
	err := db.Model(&chat.Message{}).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Distinct().
		Pluck("room_id", &roomIDs).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]RoomSummary, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		var last chat.Message
		if err := db.Where("room_id = ?", roomID).Order("created_at DESC").First(&last).Error; err != nil {
			return nil, err
		}

		var unread int64
		err := db.Model(&chat.Message{}).
			Where("room_id = ? AND receiver_id = ? AND is_read = ?", roomID, userID, false).
			Count(&unread).Error
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, RoomSummary{RoomID: roomID, LastMessage: last, UnreadCount: unread})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastMessage.CreatedAt.After(summaries[j].LastMessage.CreatedAt)
	})
	return summaries, nil
}

// MarkMessageRead отмечает сообщение прочитанным только его получателем
func (r *ChatRepositoryImpl) MarkMessageRead(db *gorm.DB, id, readerID string, at time.Time) (bool, error) {
	result := db.Model(&chat.Message{}).
		Where("id = ? AND receiver_id = ? AND is_read = ?", id, readerID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *ChatRepositoryImpl) MarkRoomRead(db *gorm.DB, roomID, readerID string, at time.Time) (int64, error) {
	result := db.Model(&chat.Message{}).
		Where("room_id = ? AND receiver_id = ? AND is_read = ?", roomID, readerID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return result.RowsAffected, result.Error
}

// AddReaction аддитивна: повторная реакция того же пользователя тем же эмодзи игнорируется
func (r *ChatRepositoryImpl) AddReaction(db *gorm.DB, messageID, userID, emoji string) (bool, error) {
	reaction := chat.MessageReaction{
		ID:        uuid.NewString(),
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
		CreatedAt: time.Now(),
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}, {Name: "emoji"}},
		DoNothing: true,
	}).Create(&reaction)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *ChatRepositoryImpl) ListReactions(db *gorm.DB, messageIDs []string) ([]chat.MessageReaction, error) {
	reactions := []chat.MessageReaction{}
	if len(messageIDs) == 0 {
		return reactions, nil
	}
	err := db.Where("message_id IN ?", messageIDs).Order("created_at ASC").Find(&reactions).Error
	return reactions, err
}
