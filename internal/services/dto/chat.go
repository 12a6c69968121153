package dto

import (
	"sort"
	"time"

	"freelance_backend/internal/models"
	"freelance_backend/internal/models/chat"
)

// SendMessageRequest - комната задается одним из roomId, bidId или receiverId
type SendMessageRequest struct {
	RoomID     string             `json:"roomId" validate:"omitempty,max=120"`
	BidID      string             `json:"bidId" validate:"omitempty,uuid"`
	ReceiverID string             `json:"receiverId" validate:"omitempty,uuid"`
	Type       models.MessageType `json:"type" validate:"omitempty,is-message-type"`
	Content    string             `json:"content" validate:"omitempty,max=4000"`
	PayloadURL string             `json:"payloadUrl" validate:"omitempty,url"`
}

func (r *SendMessageRequest) Rules() map[string]string {
	errs := map[string]string{}
	if r.RoomID == "" && r.BidID == "" && r.ReceiverID == "" {
		errs["roomId"] = "One of roomId, bidId or receiverId is required"
	}
	msgType := r.Type
	if msgType == "" {
		msgType = models.MessageTypeText
	}
	if msgType == models.MessageTypeText && r.Content == "" {
		errs["content"] = "Content is required for text messages"
	}
	if msgType != models.MessageTypeText && r.PayloadURL == "" {
		errs["payloadUrl"] = "Payload URL is required for attachments"
	}
	return errs
}

type ReactionRequest struct {
	Emoji string `json:"emoji" validate:"required,emoji"`
}

type MessageListQuery struct {
	Before *time.Time `form:"before" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit  int        `form:"limit" validate:"omitempty,min=1,max=200"`
}

type MessageResponse struct {
	ID         string              `json:"id"`
	RoomID     string              `json:"roomId"`
	BidID      *string             `json:"bidId,omitempty"`
	SenderID   string              `json:"senderId"`
	ReceiverID *string             `json:"receiverId,omitempty"`
	Type       string              `json:"type"`
	Content    string              `json:"content"`
	PayloadURL *string             `json:"payloadUrl,omitempty"`
	IsRead     bool                `json:"isRead"`
	ReadAt     *time.Time          `json:"readAt,omitempty"`
	Reactions  map[string][]string `json:"reactions"`
	CreatedAt  time.Time           `json:"createdAt"`
}

type RoomResponse struct {
	RoomID      string           `json:"roomId"`
	LastMessage *MessageResponse `json:"lastMessage"`
	UnreadCount int64            `json:"unreadCount"`
}

type ChatUploadResponse struct {
	URL      string `json:"url"`
	Type     string `json:"type"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

type MarkReadResponse struct {
	RoomID  string `json:"roomId"`
	Updated int64  `json:"updated"`
}

func NewMessageResponse(m *chat.Message) *MessageResponse {
	reactions := map[string][]string{}
	for _, r := range m.Reactions {
		reactions[r.Emoji] = append(reactions[r.Emoji], r.UserID)
	}
	for emoji := range reactions {
		sort.Strings(reactions[emoji])
	}
	return &MessageResponse{
		ID:         m.ID,
		RoomID:     m.RoomID,
		BidID:      m.BidID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Type:       m.Type,
		Content:    m.Content,
		PayloadURL: m.PayloadURL,
		IsRead:     m.IsRead,
		ReadAt:     m.ReadAt,
		Reactions:  reactions,
		CreatedAt:  m.CreatedAt,
	}
}

func NewMessageResponses(msgs []chat.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, *NewMessageResponse(&msgs[i]))
	}
	return out
}
