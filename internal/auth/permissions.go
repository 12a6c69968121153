package auth

import (
	"errors"

	"freelance_backend/internal/models"
	"freelance_backend/pkg/apperrors"
)

// Actor - аутентифицированный пользователь, выполняющий операцию
type Actor struct {
	ID   string
	Role models.UserRole
}

func (a Actor) IsStaff() bool {
	return a.Role == models.UserRoleAdmin || a.Role == models.UserRoleModerator
}

type Action string

const (
	ActionProjectUpdate   Action = "project:update"
	ActionProjectDelete   Action = "project:delete"
	ActionProjectStatus   Action = "project:status"
	ActionProjectBidsAll  Action = "project:bids:all"
	ActionProjectModerate Action = "project:moderate"
	ActionBidSubmit       Action = "bid:submit"
	ActionBidAccept       Action = "bid:accept"
	ActionBidReject       Action = "bid:reject"
	ActionBidWithdraw     Action = "bid:withdraw"
	ActionBidView         Action = "bid:view"
	ActionReviewReply     Action = "review:reply"
	ActionReviewVerify    Action = "review:verify"
	ActionChatAccess      Action = "chat:access"
)

// Resource - то, над чем выполняется действие
type Resource struct {
	// OwnerID - владелец (клиент проекта, автор отклика, адресат отзыва)
	OwnerID string
	// ParticipantIDs - дополнительные участники (фрилансер отклика, собеседник)
	ParticipantIDs []string
}

// RBAC: действия, разрешенные роли независимо от владения
var Permissions = map[models.UserRole][]Action{
	models.UserRoleAdmin: {
		ActionProjectModerate,
		ActionReviewVerify,
		ActionProjectBidsAll,
		ActionBidView,
	},
	models.UserRoleModerator: {
		ActionProjectModerate,
		ActionReviewVerify,
	},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role models.UserRole, action Action) bool {
	for _, a := range Permissions[role] {
		if a == action {
			return true
		}
	}
	return false
}

// Authorize - единая проверка (actor, action, resource) перед каждой мутацией
func Authorize(actor Actor, action Action, res Resource) error {
	if actor.ID == "" {
		return apperrors.NewUnauthorizedError("User not authenticated")
	}
	if HasPermission(actor.Role, action) {
		return nil
	}

	switch action {
	case ActionProjectUpdate, ActionProjectDelete, ActionProjectStatus, ActionProjectBidsAll,
		ActionBidAccept, ActionBidReject:
		if actor.ID == res.OwnerID {
			return nil
		}
		return apperrors.ErrNotProjectOwner

	case ActionBidSubmit:
		// OwnerID - клиент проекта
		if actor.ID == res.OwnerID {
			return apperrors.ErrOwnProjectBid
		}
		return nil

	case ActionBidWithdraw:
		if actor.ID == res.OwnerID {
			return nil
		}
		return apperrors.NewForbiddenError("Only the bid author can withdraw it")

	case ActionBidView, ActionChatAccess:
		if actor.ID == res.OwnerID || contains(res.ParticipantIDs, actor.ID) {
			return nil
		}
		if action == ActionChatAccess {
			return apperrors.ErrNotRoomParticipant
		}
		return apperrors.NewForbiddenError("You cannot view this bid")

	case ActionReviewReply:
		if actor.ID == res.OwnerID {
			return nil
		}
		return apperrors.NewForbiddenError("Only the reviewed user can reply")
	}

	return apperrors.ErrInsufficientPermissions
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ValidateRole проверяет валидность роли
func ValidateRole(role string) error {
	switch models.UserRole(role) {
	case models.UserRoleClient, models.UserRoleFreelancer, models.UserRoleAdmin, models.UserRoleModerator:
		return nil
	default:
		return errors.New("invalid role")
	}
}
