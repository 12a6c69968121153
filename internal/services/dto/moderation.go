package dto

import "freelance_backend/internal/moderation"

type ModerationCheckRequest struct {
	Text    string             `json:"text" validate:"required,max=20000"`
	Options moderation.Options `json:"options"`
}
