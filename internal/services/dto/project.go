package dto

import (
	"time"

	"freelance_backend/internal/models"
)

// --- Project Requests ---

type CreateProjectRequest struct {
	Title               string               `json:"title" validate:"required,notblank,min=3,max=200"`
	Description         string               `json:"description" validate:"required,notblank,min=10,max=5000"`
	DetailedDescription string               `json:"detailedDescription" validate:"omitempty,max=20000"`
	Category            string               `json:"category" validate:"required,notblank,max=100"`
	Subcategory         string               `json:"subcategory" validate:"omitempty,max=100"`
	Skills              []string             `json:"skills" validate:"omitempty,max=30,dive,required,max=50"`
	BudgetType          models.BudgetType    `json:"budgetType" validate:"required,is-budget-type"`
	BudgetAmount        *float64             `json:"budgetAmount" validate:"omitempty,gt=0"`
	Currency            string               `json:"currency" validate:"omitempty,is-currency"`
	IsRemote            bool                 `json:"isRemote"`
	City                string               `json:"city" validate:"omitempty,max=100"`
	Country             string               `json:"country" validate:"omitempty,max=100"`
	Address             string               `json:"address" validate:"omitempty,max=255"`
	Deadline            *time.Time           `json:"deadline"`
	IsUrgent            bool                 `json:"isUrgent"`
	Status              models.ProjectStatus `json:"status" validate:"omitempty,oneof=draft published"`
}

func (r *CreateProjectRequest) Rules() map[string]string {
	errs := map[string]string{}
	checkBudget(errs, r.BudgetType, r.BudgetAmount)
	checkDeadline(errs, r.Deadline)
	if !r.IsRemote && r.City == "" {
		errs["city"] = "City is required for on-site projects"
	}
	return errs
}

// UpdateProjectRequest - частичное обновление, nil поля не меняются
type UpdateProjectRequest struct {
	Title               *string            `json:"title" validate:"omitempty,notblank,min=3,max=200"`
	Description         *string            `json:"description" validate:"omitempty,notblank,min=10,max=5000"`
	DetailedDescription *string            `json:"detailedDescription" validate:"omitempty,max=20000"`
	Category            *string            `json:"category" validate:"omitempty,notblank,max=100"`
	Subcategory         *string            `json:"subcategory" validate:"omitempty,max=100"`
	Skills              *[]string          `json:"skills" validate:"omitempty,max=30,dive,required,max=50"`
	BudgetType          *models.BudgetType `json:"budgetType" validate:"omitempty,is-budget-type"`
	BudgetAmount        *float64           `json:"budgetAmount" validate:"omitempty,gt=0"`
	Currency            *string            `json:"currency" validate:"omitempty,is-currency"`
	IsRemote            *bool              `json:"isRemote"`
	City                *string            `json:"city" validate:"omitempty,max=100"`
	Country             *string            `json:"country" validate:"omitempty,max=100"`
	Address             *string            `json:"address" validate:"omitempty,max=255"`
	Deadline            *time.Time         `json:"deadline"`
	IsUrgent            *bool              `json:"isUrgent"`
	// ExistingImages - явный список изображений, которые нужно оставить
	ExistingImages *[]string `json:"existingImages" validate:"omitempty,max=50"`
}

func (r *UpdateProjectRequest) Rules() map[string]string {
	errs := map[string]string{}
	checkDeadline(errs, r.Deadline)
	return errs
}

// HasTextChanges - нужна ли повторная модерация
func (r *UpdateProjectRequest) HasTextChanges() bool {
	return r.Title != nil || r.Description != nil || r.DetailedDescription != nil
}

type PatchStatusRequest struct {
	Status models.ProjectStatus `json:"status" validate:"required,is-project-status"`
}

type ModerationDecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Note     string `json:"note" validate:"omitempty,max=1000"`
}

type ProjectListQuery struct {
	Category  string   `form:"category" validate:"omitempty,max=100"`
	Search    string   `form:"search" validate:"omitempty,max=200"`
	IsUrgent  *bool    `form:"isUrgent"`
	IsRemote  *bool    `form:"isRemote"`
	BudgetMin *float64 `form:"budgetMin" validate:"omitempty,min=0"`
	BudgetMax *float64 `form:"budgetMax" validate:"omitempty,min=0"`
	Page      int      `form:"page" validate:"omitempty,min=1"`
	PageSize  int      `form:"page_size" validate:"omitempty,min=1,max=100"`
}

func (q *ProjectListQuery) Rules() map[string]string {
	errs := map[string]string{}
	if q.BudgetMin != nil && q.BudgetMax != nil && *q.BudgetMin > *q.BudgetMax {
		errs["budgetMax"] = "Must be greater than or equal to budgetMin"
	}
	return errs
}

func checkBudget(errs map[string]string, budgetType models.BudgetType, amount *float64) {
	if budgetType == models.BudgetTypePriceRequest {
		return
	}
	if budgetType != "" && amount == nil {
		errs["budgetAmount"] = "Budget amount is required unless budget type is price_request"
	}
}

func checkDeadline(errs map[string]string, deadline *time.Time) {
	if deadline != nil && deadline.Before(time.Now()) {
		errs["deadline"] = "Deadline must be in the future"
	}
}

// --- Project Responses ---

type ProjectResponse struct {
	ID                  string               `json:"id"`
	ClientID            string               `json:"clientId"`
	Title               string               `json:"title"`
	Description         string               `json:"description"`
	DetailedDescription string               `json:"detailedDescription,omitempty"`
	Category            string               `json:"category"`
	Subcategory         string               `json:"subcategory,omitempty"`
	Skills              []string             `json:"skills"`
	BudgetAmount        *float64             `json:"budgetAmount"`
	BudgetType          string               `json:"budgetType"`
	Currency            string               `json:"currency"`
	Status              string               `json:"status"`
	ModerationStatus    string               `json:"moderationStatus"`
	ModerationScore     int                  `json:"moderationScore"`
	IsRemote            bool                 `json:"isRemote"`
	City                string               `json:"city,omitempty"`
	Country             string               `json:"country,omitempty"`
	Address             string               `json:"address,omitempty"`
	Deadline            *time.Time           `json:"deadline,omitempty"`
	Images              []string             `json:"images"`
	Attachments         []AttachmentResponse `json:"attachments"`
	IsUrgent            bool                 `json:"isUrgent"`
	IsFeatured          bool                 `json:"isFeatured"`
	ProposalsCount      int                  `json:"proposalsCount"`
	ViewsCount          int                  `json:"viewsCount"`
	AcceptedBidID       *string              `json:"acceptedBidId,omitempty"`
	CreatedAt           time.Time            `json:"createdAt"`
	UpdatedAt           time.Time            `json:"updatedAt"`
	PublishedAt         *time.Time           `json:"publishedAt,omitempty"`
	DeletedAt           *time.Time           `json:"deletedAt,omitempty"`
}

// ProjectMutationResponse - результат создания/обновления
type ProjectMutationResponse struct {
	Project       *ProjectResponse   `json:"project"`
	Moderation    *ModerationSummary `json:"moderation,omitempty"`
	Uploads       UploadReport       `json:"uploads"`
	RemovedImages []string           `json:"removedImages,omitempty"`
}

type DeleteProjectResponse struct {
	ProjectID    string   `json:"projectId"`
	Mode         string   `json:"mode"` // hard | soft
	RemovedFiles []string `json:"removedFiles"`
	FailedFiles  []string `json:"failedFiles"`
}

func NewProjectResponse(p *models.Project) *ProjectResponse {
	resp := &ProjectResponse{
		ID:                  p.ID,
		ClientID:            p.ClientID,
		Title:               p.Title,
		Description:         p.Description,
		DetailedDescription: p.DetailedDescription,
		Category:            p.Category,
		Subcategory:         p.Subcategory,
		Skills:              []string(p.Skills),
		BudgetAmount:        p.BudgetAmount,
		BudgetType:          string(p.BudgetType),
		Currency:            p.Currency,
		Status:              string(p.Status),
		ModerationStatus:    string(p.ModerationStatus),
		ModerationScore:     p.ModerationScore,
		IsRemote:            p.IsRemote,
		City:                p.City,
		Country:             p.Country,
		Address:             p.Address,
		Deadline:            p.Deadline,
		Images:              []string(p.Images),
		Attachments:         make([]AttachmentResponse, 0, len(p.Attachments)),
		IsUrgent:            p.IsUrgent,
		IsFeatured:          p.IsFeatured,
		ProposalsCount:      p.ProposalsCount,
		ViewsCount:          p.ViewsCount,
		AcceptedBidID:       p.AcceptedBidID,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
		PublishedAt:         p.PublishedAt,
		DeletedAt:           p.DeletedAt,
	}
	if resp.Skills == nil {
		resp.Skills = []string{}
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	for _, a := range p.Attachments {
		resp.Attachments = append(resp.Attachments, AttachmentResponse{
			Key: a.Key, URL: a.URL, Name: a.Name, MimeType: a.MimeType, Size: a.Size,
		})
	}
	return resp
}

func NewProjectResponses(projects []models.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, *NewProjectResponse(&projects[i]))
	}
	return out
}
