package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"freelance_backend/internal/auth"
	"freelance_backend/internal/logger"
	"freelance_backend/internal/models"
	"freelance_backend/internal/models/chat"
	"freelance_backend/internal/moderation"
	"freelance_backend/internal/notify"
	"freelance_backend/internal/repositories"
	"freelance_backend/internal/services/dto"
	"freelance_backend/internal/storage"
	"freelance_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	roomPrefixBid    = "bid:"
	roomPrefixDirect = "dm:"

	defaultMessageLimit = 50
)

// Room - комната чата и ее участники
type Room struct {
	ID           string
	BidID        *string
	Participants []string
}

// Other - второй участник комнаты
func (r *Room) Other(userID string) string {
	for _, p := range r.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// DirectRoomID - id комнаты личной переписки, не зависит от порядка участников
func DirectRoomID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return roomPrefixDirect + ids[0] + ":" + ids[1]
}

func BidRoomID(bidID string) string {
	return roomPrefixBid + bidID
}

type ChatService interface {
	SendMessage(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	ListRoomMessages(ctx context.Context, db *gorm.DB, actor auth.Actor, roomID string, before *time.Time, limit int) ([]dto.MessageResponse, error)
	ListRooms(ctx context.Context, db *gorm.DB, actor auth.Actor) ([]dto.RoomResponse, error)
	MarkRead(ctx context.Context, db *gorm.DB, actor auth.Actor, messageID string) (*dto.MessageResponse, error)
	MarkRoomRead(ctx context.Context, db *gorm.DB, actor auth.Actor, roomID string) (*dto.MarkReadResponse, error)
	AddReaction(ctx context.Context, db *gorm.DB, actor auth.Actor, messageID, emoji string) (*dto.MessageResponse, error)
	UploadChatFile(ctx context.Context, db *gorm.DB, actor auth.Actor, roomID string, file dto.FileUpload) (*dto.ChatUploadResponse, error)
}

type chatService struct {
	chatRepo    repositories.ChatRepository
	bidRepo     repositories.BidRepository
	projectRepo repositories.ProjectRepository
	moderation  ModerationService
	uploader    *Uploader
	notifier    notify.Notifier
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	bidRepo repositories.BidRepository,
	projectRepo repositories.ProjectRepository,
	moderation ModerationService,
	uploader *Uploader,
	notifier notify.Notifier,
) ChatService {
	return &chatService{
		chatRepo:    chatRepo,
		bidRepo:     bidRepo,
		projectRepo: projectRepo,
		moderation:  moderation,
		uploader:    uploader,
		notifier:    notifier,
	}
}

// ---------------- Rooms ----------------

// resolveRoom определяет комнату по roomId, bidId или receiverId и проверяет доступ
func (s *chatService) resolveRoom(db *gorm.DB, actor auth.Actor, roomID, bidID, receiverID string) (*Room, error) {
	if actor.ID == "" {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}

	var (
		room *Room
		err  error
	)
	switch {
	case roomID != "":
		room, err = s.roomByID(db, roomID)
	case bidID != "":
		room, err = s.bidRoom(db, bidID)
	case receiverID != "":
		if receiverID == actor.ID {
			return nil, apperrors.ErrInvalidRoom
		}
		room = &Room{ID: DirectRoomID(actor.ID, receiverID), Participants: []string{actor.ID, receiverID}}
	default:
		return nil, apperrors.ErrInvalidRoom
	}
	if err != nil {
		return nil, err
	}

	if err := auth.Authorize(actor, auth.ActionChatAccess, auth.Resource{ParticipantIDs: room.Participants}); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *chatService) roomByID(db *gorm.DB, roomID string) (*Room, error) {
	switch {
	case strings.HasPrefix(roomID, roomPrefixBid):
		return s.bidRoom(db, strings.TrimPrefix(roomID, roomPrefixBid))
	case strings.HasPrefix(roomID, roomPrefixDirect):
		parts := strings.Split(strings.TrimPrefix(roomID, roomPrefixDirect), ":")
		if len(parts) != 2 || parts[0] == parts[1] || !isUUID(parts[0]) || !isUUID(parts[1]) {
			return nil, apperrors.ErrInvalidRoom
		}
		if DirectRoomID(parts[0], parts[1]) != roomID {
			return nil, apperrors.ErrInvalidRoom
		}
		return &Room{ID: roomID, Participants: parts}, nil
	}
	return nil, apperrors.ErrInvalidRoom
}

func (s *chatService) bidRoom(db *gorm.DB, bidID string) (*Room, error) {
	if !isUUID(bidID) {
		return nil, apperrors.ErrInvalidRoom
	}
	bid, err := s.bidRepo.FindBidByID(db, bidID)
	if err != nil {
		return nil, handleRepoError(err, "chat")
	}
	project, err := s.projectRepo.FindProjectByID(db, bid.ProjectID)
	if err != nil {
		return nil, handleRepoError(err, "chat")
	}
	id := bid.ID
	return &Room{
		ID:           BidRoomID(bid.ID),
		BidID:        &id,
		Participants: []string{bid.FreelancerID, project.ClientID},
	}, nil
}

// ---------------- Messages ----------------

func (s *chatService) SendMessage(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	room, err := s.resolveRoom(db, actor, req.RoomID, req.BidID, req.ReceiverID)
	if err != nil {
		return nil, err
	}

	msgType := req.Type
	if msgType == "" {
		msgType = models.MessageTypeText
	}

	content := req.Content
	if content != "" {
		res := s.moderation.Check(ctx, content, moderation.Options{Mask: true})
		if res.SanitizedText != nil {
			content = *res.SanitizedText
		}
	}

	msg := &chat.Message{
		ID:        uuid.NewString(),
		RoomID:    room.ID,
		BidID:     room.BidID,
		SenderID:  actor.ID,
		Type:      string(msgType),
		Content:   content,
		CreatedAt: time.Now(),
	}
	if receiver := room.Other(actor.ID); receiver != "" {
		msg.ReceiverID = &receiver
	}
	if req.PayloadURL != "" {
		payload := req.PayloadURL
		msg.PayloadURL = &payload
	}

	if err := s.chatRepo.CreateMessage(db, msg); err != nil {
		return nil, handleRepoError(err, "chat")
	}

	logger.CtxDebug(ctx, "Chat message sent", "room_id", room.ID, "message_id", msg.ID)

	resp := dto.NewMessageResponse(msg)
	publishEvent(ctx, s.notifier, notify.NewEvent(notify.EventChatMessage, resp, room.Participants...))
	return resp, nil
}

func (s *chatService) ListRoomMessages(ctx context.Context, db *gorm.DB, actor auth.Actor, roomID string, before *time.Time, limit int) ([]dto.MessageResponse, error) {
	room, err := s.resolveRoom(db, actor, roomID, "", "")
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = defaultMessageLimit
	}
	msgs, err := s.chatRepo.ListRoomMessages(db, room.ID, before, limit)
	if err != nil {
		return nil, handleRepoError(err, "chat")
	}
	return dto.NewMessageResponses(msgs), nil
}

func (s *chatService) ListRooms(ctx context.Context, db *gorm.DB, actor auth.Actor) ([]dto.RoomResponse, error) {
	if actor.ID == "" {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	summaries, err := s.chatRepo.ListRooms(db, actor.ID)
	if err != nil {
		return nil, handleRepoError(err, "chat")
	}
	rooms := make([]dto.RoomResponse, 0, len(summaries))
	for i := range summaries {
		rooms = append(rooms, dto.RoomResponse{
			RoomID:      summaries[i].RoomID,
			LastMessage: dto.NewMessageResponse(&summaries[i].LastMessage),
			UnreadCount: summaries[i].UnreadCount,
		})
	}
	return rooms, nil
}

// MarkRead - отметить прочитанным может только получатель; для отправителя no-op
func (s *chatService) MarkRead(ctx context.Context, db *gorm.DB, actor auth.Actor, messageID string) (*dto.MessageResponse, error) {
	msg, err := s.chatRepo.FindMessageByID(db, messageID)
	if err != nil {
		return nil, handleRepoError(err, "chat")
	}
	participants := []string{msg.SenderID}
	if msg.ReceiverID != nil {
		participants = append(participants, *msg.ReceiverID)
	}
	if err := auth.Authorize(actor, auth.ActionChatAccess, auth.Resource{ParticipantIDs: participants}); err != nil {
		return nil, err
	}

	updated, err := s.chatRepo.MarkMessageRead(db, msg.ID, actor.ID, time.Now())
	if err != nil {
		return nil, handleRepoError(err, "chat")
	}
	if updated {
		if msg, err = s.chatRepo.FindMessageByID(db, messageID); err != nil {
			return nil, handleRepoError(err, "chat")
		}
		publishEvent(ctx, s.notifier, notify.NewEvent(notify.EventChatRead, map[string]any{
			"roomId":    msg.RoomID,
			"messageId": msg.ID,
			"readerId":  actor.ID,
		}, msg.SenderID))
	}
	return dto.NewMessageResponse(msg), nil
}

func (s *chatService) MarkRoomRead(ctx context.Context, db *gorm.DB, actor auth.Actor, roomID string) (*dto.MarkReadResponse, error) {
	room, err := s.resolveRoom(db, actor, roomID, "", "")
	if err != nil {
		return nil, err
	}
	n, err := s.chatRepo.MarkRoomRead(db, room.ID, actor.ID, time.Now())
	if err != nil {
		return nil, handleRepoError(err, "chat")
	}
	if n > 0 {
		publishEvent(ctx, s.notifier, notify.NewEvent(notify.EventChatRead, map[string]any{
			"roomId":   room.ID,
			"readerId": actor.ID,
			"updated":  n,
		}, room.Other(actor.ID)))
	}
	return &dto.MarkReadResponse{RoomID: room.ID, Updated: n}, nil
}

// AddReaction аддитивна и идемпотентна для пары (пользователь, эмодзи)
func (s *chatService) AddReaction(ctx context.Context, db *gorm.DB, actor auth.Actor, messageID, emoji string) (*dto.MessageResponse, error) {
	msg, err := s.chatRepo.FindMessageByID(db, messageID)
	if err != nil {
		return nil, handleRepoError(err, "chat")
	}
	room, err := s.resolveRoom(db, actor, msg.RoomID, "", "")
	if err != nil {
		return nil, err
	}

	added, err := s.chatRepo.AddReaction(db, msg.ID, actor.ID, emoji)
	if err != nil {
		return nil, handleRepoError(err, "chat")
	}
	if msg, err = s.chatRepo.FindMessageByID(db, messageID); err != nil {
		return nil, handleRepoError(err, "chat")
	}

	resp := dto.NewMessageResponse(msg)
	if added {
		publishEvent(ctx, s.notifier, notify.NewEvent(notify.EventChatReaction, resp, room.Participants...))
	}
	return resp, nil
}

func (s *chatService) UploadChatFile(ctx context.Context, db *gorm.DB, actor auth.Actor, roomID string, file dto.FileUpload) (*dto.ChatUploadResponse, error) {
	room, err := s.resolveRoom(db, actor, roomID, "", "")
	if err != nil {
		return nil, err
	}

	att, err := s.uploader.UploadOne(ctx, storage.ChatPrefix(room.ID), file)
	if err != nil {
		return nil, err
	}

	return &dto.ChatUploadResponse{
		URL:      att.URL,
		Type:     string(messageTypeFor(att.MimeType)),
		MimeType: att.MimeType,
		Size:     att.Size,
	}, nil
}

func messageTypeFor(mime string) models.MessageType {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return models.MessageTypeImage
	case strings.HasPrefix(mime, "audio/"):
		return models.MessageTypeVoice
	default:
		return models.MessageTypeFile
	}
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
