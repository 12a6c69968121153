package models

type UserRole string
type ProjectStatus string
type ModerationStatus string
type BudgetType string
type BidStatus string
type MessageType string

const (
	UserRoleClient     UserRole = "client"
	UserRoleFreelancer UserRole = "freelancer"
	UserRoleAdmin      UserRole = "admin"
	UserRoleModerator  UserRole = "moderator"

	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusPending    ProjectStatus = "pending"
	ProjectStatusPublished  ProjectStatus = "published"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
	ProjectStatusDeleted    ProjectStatus = "deleted"

	ModerationApproved      ModerationStatus = "approved"
	ModerationPendingReview ModerationStatus = "pending_review"
	ModerationUnverified    ModerationStatus = "unverified"
	ModerationRejected      ModerationStatus = "rejected"

	BudgetTypeFixed        BudgetType = "fixed"
	BudgetTypeHourly       BudgetType = "hourly"
	BudgetTypePriceRequest BudgetType = "price_request"

	BidStatusPending   BidStatus = "pending"
	BidStatusAccepted  BidStatus = "accepted"
	BidStatusRejected  BidStatus = "rejected"
	BidStatusWithdrawn BidStatus = "withdrawn"

	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeFile  MessageType = "file"
	MessageTypeVoice MessageType = "voice"
)

// IsTerminal - из этих статусов проект больше не меняется владельцем
func (s ProjectStatus) IsTerminal() bool {
	return s == ProjectStatusCompleted || s == ProjectStatusDeleted
}

// IsPublic - проект виден всем, остальные статусы видят только владелец и staff
func (s ProjectStatus) IsPublic() bool {
	return s == ProjectStatusPublished || s == ProjectStatusInProgress || s == ProjectStatusCompleted
}

func (s BidStatus) IsTerminal() bool {
	return s != BidStatusPending
}
