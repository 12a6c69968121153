package services

import (
	"context"
	"strings"
	"time"

	"freelance_backend/internal/auth"
	"freelance_backend/internal/logger"
	"freelance_backend/internal/metrics"
	"freelance_backend/internal/models"
	"freelance_backend/internal/notify"
	"freelance_backend/internal/repositories"
	"freelance_backend/internal/services/dto"
	"freelance_backend/internal/storage"
	"freelance_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultCurrency = "KZT"

// projectTransitions - разрешенные переходы через PatchStatus
var projectTransitions = map[models.ProjectStatus][]models.ProjectStatus{
	models.ProjectStatusDraft:      {models.ProjectStatusPending, models.ProjectStatusPublished, models.ProjectStatusCancelled},
	models.ProjectStatusPending:    {models.ProjectStatusDraft, models.ProjectStatusPublished},
	models.ProjectStatusPublished:  {models.ProjectStatusCancelled},
	models.ProjectStatusInProgress: {models.ProjectStatusCompleted},
	models.ProjectStatusCancelled:  {models.ProjectStatusPublished},
}

func CanTransitionProject(from, to models.ProjectStatus) bool {
	for _, s := range projectTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type ProjectService interface {
	CreateProject(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateProjectRequest, files []dto.FileUpload) (*dto.ProjectMutationResponse, error)
	GetProject(ctx context.Context, db *gorm.DB, viewer auth.Actor, id string) (*dto.ProjectResponse, error)
	ListProjects(ctx context.Context, db *gorm.DB, q *dto.ProjectListQuery) (*dto.PageResponse[dto.ProjectResponse], error)
	ListMyProjects(ctx context.Context, db *gorm.DB, actor auth.Actor, page, pageSize int) (*dto.PageResponse[dto.ProjectResponse], error)
	UpdateProject(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, req *dto.UpdateProjectRequest, files []dto.FileUpload) (*dto.ProjectMutationResponse, error)
	PatchStatus(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, status models.ProjectStatus) (*dto.ProjectResponse, error)
	DeleteProject(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) (*dto.DeleteProjectResponse, error)

	// Admin
	ListModerationQueue(ctx context.Context, db *gorm.DB, actor auth.Actor, page, pageSize int) (*dto.PageResponse[dto.ProjectResponse], error)
	ModerateProject(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, req *dto.ModerationDecisionRequest) (*dto.ProjectResponse, error)
}

type projectService struct {
	projectRepo  repositories.ProjectRepository
	bidRepo      repositories.BidRepository
	favoriteRepo repositories.FavoriteRepository
	moderation   ModerationService
	uploader     *Uploader
	notifier     notify.Notifier
}

func NewProjectService(
	projectRepo repositories.ProjectRepository,
	bidRepo repositories.BidRepository,
	favoriteRepo repositories.FavoriteRepository,
	moderation ModerationService,
	uploader *Uploader,
	notifier notify.Notifier,
) ProjectService {
	return &projectService{
		projectRepo:  projectRepo,
		bidRepo:      bidRepo,
		favoriteRepo: favoriteRepo,
		moderation:   moderation,
		uploader:     uploader,
		notifier:     notifier,
	}
}

// ---------------- Create ----------------

func (s *projectService) CreateProject(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateProjectRequest, files []dto.FileUpload) (*dto.ProjectMutationResponse, error) {
	if actor.ID == "" {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}

	assessment, err := s.moderation.AssessProject(ctx, ProjectText{
		Title:               req.Title,
		Description:         req.Description,
		DetailedDescription: req.DetailedDescription,
	})
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		BaseModel:           models.BaseModel{ID: uuid.NewString()},
		ClientID:            actor.ID,
		Title:               strings.TrimSpace(req.Title),
		Description:         req.Description,
		DetailedDescription: req.DetailedDescription,
		Category:            req.Category,
		Subcategory:         req.Subcategory,
		Skills:              datatypes.JSONSlice[string](normalizeSkills(req.Skills)),
		BudgetType:          req.BudgetType,
		BudgetAmount:        req.BudgetAmount,
		Currency:            req.Currency,
		IsRemote:            req.IsRemote,
		City:                req.City,
		Country:             req.Country,
		Address:             req.Address,
		Deadline:            req.Deadline,
		IsUrgent:            req.IsUrgent,
		ModerationStatus:    assessment.Status,
		ModerationScore:     assessment.Score,
		Images:              datatypes.JSONSlice[string]{},
		Attachments:         datatypes.JSONSlice[models.ProjectAttachment]{},
	}
	if project.Currency == "" {
		project.Currency = defaultCurrency
	}
	if project.BudgetType == models.BudgetTypePriceRequest {
		project.BudgetAmount = nil
	}

	status := req.Status
	if status == "" {
		status = models.ProjectStatusPublished
	}
	if status == models.ProjectStatusPublished {
		if assessment.Approved() {
			now := time.Now()
			project.PublishedAt = &now
		} else {
			status = models.ProjectStatusPending
		}
	}
	project.Status = status

	uploaded, failed := s.uploader.UploadAll(ctx, storage.ProjectPrefix(project.ID), files)
	appendUploads(project, uploaded)

	if err := s.projectRepo.CreateProject(db, project); err != nil {
		if len(uploaded) > 0 {
			s.uploader.Remove(ctx, attachmentKeys(uploaded))
		}
		return nil, handleRepoError(err, "project")
	}

	logger.CtxInfo(ctx, "Project created",
		"project_id", project.ID,
		"status", project.Status,
		"moderation_status", project.ModerationStatus,
		"uploaded", len(uploaded),
		"failed", len(failed),
	)

	return &dto.ProjectMutationResponse{
		Project:    dto.NewProjectResponse(project),
		Moderation: moderationSummary(assessment),
		Uploads:    dto.UploadReport{Uploaded: toAttachmentResponses(uploaded), Failed: failed},
	}, nil
}

// ---------------- Read ----------------

// GetProject - viewer может быть анонимным. Чужие непубличные проекты отдаются как 404,
// просмотры считаются только у публичных
func (s *projectService) GetProject(ctx context.Context, db *gorm.DB, viewer auth.Actor, id string) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.FindProjectByID(db, id)
	if err != nil {
		return nil, handleRepoError(err, "project")
	}
	if !project.Status.IsPublic() {
		if viewer.ID != project.ClientID && !viewer.IsStaff() {
			return nil, apperrors.ErrProjectNotFound
		}
		return dto.NewProjectResponse(project), nil
	}

	if err := s.projectRepo.IncrementViews(db, id); err != nil {
		return nil, handleRepoError(err, "project")
	}
	project.ViewsCount++
	return dto.NewProjectResponse(project), nil
}

func (s *projectService) ListProjects(ctx context.Context, db *gorm.DB, q *dto.ProjectListQuery) (*dto.PageResponse[dto.ProjectResponse], error) {
	page, pageSize := normalizePage(q.Page, q.PageSize)
	projects, total, err := s.projectRepo.ListPublished(db, repositories.ProjectFilter{
		Category:  q.Category,
		Search:    q.Search,
		IsUrgent:  q.IsUrgent,
		IsRemote:  q.IsRemote,
		BudgetMin: q.BudgetMin,
		BudgetMax: q.BudgetMax,
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		return nil, handleRepoError(err, "project")
	}
	return dto.NewPage(dto.NewProjectResponses(projects), total, page, pageSize), nil
}

func (s *projectService) ListMyProjects(ctx context.Context, db *gorm.DB, actor auth.Actor, page, pageSize int) (*dto.PageResponse[dto.ProjectResponse], error) {
	if actor.ID == "" {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	page, pageSize = normalizePage(page, pageSize)
	projects, total, err := s.projectRepo.ListByClient(db, actor.ID, page, pageSize)
	if err != nil {
		return nil, handleRepoError(err, "project")
	}
	return dto.NewPage(dto.NewProjectResponses(projects), total, page, pageSize), nil
}

// ---------------- Update ----------------

func (s *projectService) UpdateProject(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, req *dto.UpdateProjectRequest, files []dto.FileUpload) (*dto.ProjectMutationResponse, error) {
	project, err := s.projectRepo.FindProjectByID(db, id)
	if err != nil {
		return nil, handleRepoError(err, "project")
	}
	if err := auth.Authorize(actor, auth.ActionProjectUpdate, auth.Resource{OwnerID: project.ClientID}); err != nil {
		return nil, err
	}
	if project.Status.IsTerminal() {
		return nil, apperrors.ErrProjectFinalized
	}

	loadedStatus := project.Status
	updates := map[string]interface{}{}
	applyProjectPatch(project, req, updates)

	if !project.IsRemote && strings.TrimSpace(project.City) == "" {
		return nil, apperrors.ValidationError(map[string]string{
			"city": "City is required for on-site projects",
		})
	}
	if project.BudgetType == models.BudgetTypePriceRequest {
		project.BudgetAmount = nil
		updates["budget_amount"] = nil
	} else if project.BudgetAmount == nil {
		return nil, apperrors.ValidationError(map[string]string{
			"budgetAmount": "Budget amount is required unless budget type is price_request",
		})
	}

	var summary *dto.ModerationSummary
	if req.HasTextChanges() {
		assessment, err := s.moderation.AssessProject(ctx, ProjectText{
			Title:               project.Title,
			Description:         project.Description,
			DetailedDescription: project.DetailedDescription,
		})
		if err != nil {
			return nil, err
		}
		summary = moderationSummary(assessment)
		updates["moderation_status"] = assessment.Status
		updates["moderation_score"] = assessment.Score
		project.ModerationStatus = assessment.Status
		project.ModerationScore = assessment.Score

		if loadedStatus == models.ProjectStatusPublished && !assessment.Approved() {
			updates["status"] = models.ProjectStatusPending
			project.Status = models.ProjectStatusPending
		}
	}

	var removedImages []string
	if req.ExistingImages != nil {
		project.Images, removedImages = keepImages(project.Images, *req.ExistingImages)
		updates["images"] = project.Images
	}

	uploaded, failed := s.uploader.UploadAll(ctx, storage.ProjectPrefix(project.ID), files)
	if len(uploaded) > 0 {
		appendUploads(project, uploaded)
		updates["images"] = project.Images
		updates["attachments"] = project.Attachments
	}

	ok, err := s.projectRepo.UpdateFields(db, project.ID, loadedStatus, updates)
	if err != nil || !ok {
		if len(uploaded) > 0 {
			s.uploader.Remove(ctx, attachmentKeys(uploaded))
		}
		if err != nil {
			return nil, handleRepoError(err, "project")
		}
		return nil, apperrors.NewConflictError("project", "Project was modified concurrently, please retry")
	}

	s.removeImages(ctx, project.ID, removedImages)

	updated, err := s.projectRepo.FindProjectByID(db, project.ID)
	if err != nil {
		return nil, handleRepoError(err, "project")
	}

	return &dto.ProjectMutationResponse{
		Project:       dto.NewProjectResponse(updated),
		Moderation:    summary,
		Uploads:       dto.UploadReport{Uploaded: toAttachmentResponses(uploaded), Failed: failed},
		RemovedImages: removedImages,
	}, nil
}

func applyProjectPatch(p *models.Project, req *dto.UpdateProjectRequest, updates map[string]interface{}) {
	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
		updates["title"] = p.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
		updates["description"] = p.Description
	}
	if req.DetailedDescription != nil {
		p.DetailedDescription = *req.DetailedDescription
		updates["detailed_description"] = p.DetailedDescription
	}
	if req.Category != nil {
		p.Category = *req.Category
		updates["category"] = p.Category
	}
	if req.Subcategory != nil {
		p.Subcategory = *req.Subcategory
		updates["subcategory"] = p.Subcategory
	}
	if req.Skills != nil {
		p.Skills = datatypes.JSONSlice[string](normalizeSkills(*req.Skills))
		updates["skills"] = p.Skills
	}
	if req.BudgetType != nil {
		p.BudgetType = *req.BudgetType
		updates["budget_type"] = p.BudgetType
	}
	if req.BudgetAmount != nil {
		p.BudgetAmount = req.BudgetAmount
		updates["budget_amount"] = *req.BudgetAmount
	}
	if req.Currency != nil {
		p.Currency = *req.Currency
		updates["currency"] = p.Currency
	}
	if req.IsRemote != nil {
		p.IsRemote = *req.IsRemote
		updates["is_remote"] = p.IsRemote
	}
	if req.City != nil {
		p.City = *req.City
		updates["city"] = p.City
	}
	if req.Country != nil {
		p.Country = *req.Country
		updates["country"] = p.Country
	}
	if req.Address != nil {
		p.Address = *req.Address
		updates["address"] = p.Address
	}
	if req.Deadline != nil {
		p.Deadline = req.Deadline
		updates["deadline"] = *req.Deadline
	}
	if req.IsUrgent != nil {
		p.IsUrgent = *req.IsUrgent
		updates["is_urgent"] = p.IsUrgent
	}
}

// keepImages оставляет только перечисленные изображения в исходном порядке.
// URL, которых нет у проекта, игнорируются
func keepImages(current []string, keep []string) (datatypes.JSONSlice[string], []string) {
	wanted := make(map[string]bool, len(keep))
	for _, u := range keep {
		wanted[u] = true
	}
	kept := datatypes.JSONSlice[string]{}
	removed := []string{}
	for _, u := range current {
		if wanted[u] {
			kept = append(kept, u)
		} else {
			removed = append(removed, u)
		}
	}
	return kept, removed
}

// removeImages удаляет из хранилища только ключи внутри префикса проекта
func (s *projectService) removeImages(ctx context.Context, projectID string, urls []string) {
	if len(urls) == 0 {
		return
	}
	prefix := storage.ProjectPrefix(projectID)
	keys := make([]string, 0, len(urls))
	for _, u := range urls {
		key, ok := s.uploader.Storage().KeyFromURL(u)
		if !ok || !strings.HasPrefix(key, prefix) {
			logger.CtxWarn(ctx, "Skipping image outside project prefix", "project_id", projectID, "url", u)
			continue
		}
		keys = append(keys, key)
	}
	res := s.uploader.Remove(ctx, keys)
	if len(res.Failed) > 0 {
		logger.CtxWarn(ctx, "Failed to remove dropped images", "project_id", projectID, "keys", res.Failed)
	}
}

// ---------------- Status ----------------

func (s *projectService) PatchStatus(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, status models.ProjectStatus) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.FindProjectByID(db, id)
	if err != nil {
		return nil, handleRepoError(err, "project")
	}
	if err := auth.Authorize(actor, auth.ActionProjectStatus, auth.Resource{OwnerID: project.ClientID}); err != nil {
		return nil, err
	}

	if project.Status == status {
		return dto.NewProjectResponse(project), nil
	}
	if project.Status.IsTerminal() {
		return nil, apperrors.ErrProjectFinalized
	}
	if !CanTransitionProject(project.Status, status) {
		return nil, apperrors.ErrInvalidStatusTransition.WithDetails(map[string]string{
			"from": string(project.Status),
			"to":   string(status),
		})
	}

	extra := map[string]interface{}{}
	if status == models.ProjectStatusPublished {
		moderationStatus := project.ModerationStatus
		if moderationStatus == models.ModerationUnverified {
			assessment, err := s.moderation.AssessProject(ctx, ProjectText{
				Title:               project.Title,
				Description:         project.Description,
				DetailedDescription: project.DetailedDescription,
			})
			if assessment != nil && assessment.Status != moderationStatus {
				moderationStatus = assessment.Status
				extra["moderation_status"] = assessment.Status
				extra["moderation_score"] = assessment.Score
				if moderationStatus != models.ModerationApproved {
					if _, uerr := s.projectRepo.UpdateFields(db, project.ID, project.Status, extra); uerr != nil {
						logger.CtxWithError(ctx, "Failed to store moderation result", uerr, "project_id", project.ID)
					}
				}
			}
			if err != nil {
				return nil, err
			}
		}
		if moderationStatus != models.ModerationApproved {
			return nil, apperrors.ErrModerationRequired.WithDetails(map[string]string{
				"moderationStatus": string(moderationStatus),
			})
		}
		if project.PublishedAt == nil {
			extra["published_at"] = time.Now()
		}
	}

	ok, err := s.projectRepo.TransitionStatus(db, project.ID, project.Status, status, extra)
	if err != nil {
		return nil, handleRepoError(err, "project")
	}
	if !ok {
		return nil, apperrors.NewConflictError("project", "Project was modified concurrently, please retry")
	}

	logger.CtxInfo(ctx, "Project status changed", "project_id", project.ID, "from", project.Status, "to", status)

	updated, err := s.projectRepo.FindProjectByID(db, project.ID)
	if err != nil {
		return nil, handleRepoError(err, "project")
	}
	return dto.NewProjectResponse(updated), nil
}

// ---------------- Delete ----------------

// DeleteProject: сначала файлы под префиксом проекта, затем строки в одной транзакции.
// Если удалить строку не удалось, проект помечается как deleted
func (s *projectService) DeleteProject(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) (*dto.DeleteProjectResponse, error) {
	project, err := s.projectRepo.FindProjectByID(db, id)
	if err != nil {
		return nil, handleRepoError(err, "project")
	}
	if err := auth.Authorize(actor, auth.ActionProjectDelete, auth.Resource{OwnerID: project.ClientID}); err != nil {
		return nil, err
	}
	if project.Status.IsTerminal() {
		return nil, apperrors.ErrProjectFinalized
	}

	files, err := storage.DeletePrefix(ctx, s.uploader.Storage(), storage.ProjectPrefix(project.ID), s.uploader.policy.Concurrency)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to list project files", err, "project_id", project.ID)
	}

	resp := &dto.DeleteProjectResponse{
		ProjectID:    project.ID,
		Mode:         "hard",
		RemovedFiles: files.Removed,
		FailedFiles:  files.Failed,
	}

	if err := s.hardDelete(db, project.ID); err != nil {
		logger.CtxWithError(ctx, "Hard delete failed, falling back to soft delete", err, "project_id", project.ID)
		if serr := s.projectRepo.SoftDeleteProject(db, project.ID, time.Now()); serr != nil {
			return nil, handleRepoError(serr, "project")
		}
		resp.Mode = "soft"
	}

	metrics.IncrementProjectDeletion(resp.Mode)
	logger.CtxInfo(ctx, "Project deleted",
		"project_id", project.ID,
		"mode", resp.Mode,
		"removed_files", len(resp.RemovedFiles),
		"failed_files", len(resp.FailedFiles),
	)
	return resp, nil
}

func (s *projectService) hardDelete(db *gorm.DB, id string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	if err := s.bidRepo.DeleteByProject(tx, id); err != nil {
		return err
	}
	if err := s.favoriteRepo.DeleteByProject(tx, id); err != nil {
		return err
	}
	if err := s.projectRepo.DeleteProject(tx, id); err != nil {
		return err
	}
	return tx.Commit().Error
}

// ---------------- Admin ----------------

func (s *projectService) ListModerationQueue(ctx context.Context, db *gorm.DB, actor auth.Actor, page, pageSize int) (*dto.PageResponse[dto.ProjectResponse], error) {
	if err := auth.Authorize(actor, auth.ActionProjectModerate, auth.Resource{}); err != nil {
		return nil, err
	}
	page, pageSize = normalizePage(page, pageSize)
	projects, total, err := s.projectRepo.ListModerationQueue(db, page, pageSize)
	if err != nil {
		return nil, handleRepoError(err, "project")
	}
	return dto.NewPage(dto.NewProjectResponses(projects), total, page, pageSize), nil
}

// ModerateProject: approve публикует ожидающий проект, reject возвращает его в черновик
func (s *projectService) ModerateProject(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, req *dto.ModerationDecisionRequest) (*dto.ProjectResponse, error) {
	if err := auth.Authorize(actor, auth.ActionProjectModerate, auth.Resource{}); err != nil {
		return nil, err
	}
	project, err := s.projectRepo.FindProjectByID(db, id)
	if err != nil {
		return nil, handleRepoError(err, "project")
	}
	if project.Status.IsTerminal() {
		return nil, apperrors.ErrProjectFinalized
	}

	updates := map[string]interface{}{"moderation_note": req.Note}
	switch req.Decision {
	case "approve":
		updates["moderation_status"] = models.ModerationApproved
		if project.Status == models.ProjectStatusPending {
			updates["status"] = models.ProjectStatusPublished
			if project.PublishedAt == nil {
				updates["published_at"] = time.Now()
			}
		}
	case "reject":
		updates["moderation_status"] = models.ModerationRejected
		if project.Status == models.ProjectStatusPending {
			updates["status"] = models.ProjectStatusDraft
		}
	default:
		return nil, apperrors.ValidationError(map[string]string{"decision": "Must be approve or reject"})
	}

	ok, err := s.projectRepo.UpdateFields(db, project.ID, project.Status, updates)
	if err != nil {
		return nil, handleRepoError(err, "project")
	}
	if !ok {
		return nil, apperrors.NewConflictError("project", "Project was modified concurrently, please retry")
	}

	updated, err := s.projectRepo.FindProjectByID(db, project.ID)
	if err != nil {
		return nil, handleRepoError(err, "project")
	}

	logger.CtxInfo(ctx, "Project moderated", "project_id", project.ID, "decision", req.Decision, "moderator_id", actor.ID)
	s.publish(ctx, notify.NewEvent(notify.EventProjectModerated, map[string]any{
		"projectId":        updated.ID,
		"decision":         req.Decision,
		"status":           updated.Status,
		"moderationStatus": updated.ModerationStatus,
		"note":             req.Note,
	}, updated.ClientID))

	return dto.NewProjectResponse(updated), nil
}

// ---------------- helpers ----------------

func (s *projectService) publish(ctx context.Context, event notify.Event) {
	publishEvent(ctx, s.notifier, event)
}

func publishEvent(ctx context.Context, n notify.Notifier, event notify.Event) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, event); err != nil {
		logger.CtxWarn(ctx, "Failed to deliver event", "event", event.Type, "error", err.Error())
	}
}

// appendUploads раскладывает загруженные файлы: изображения в images, остальное в attachments
func appendUploads(p *models.Project, uploaded []models.ProjectAttachment) {
	if p.Images == nil {
		p.Images = datatypes.JSONSlice[string]{}
	}
	if p.Attachments == nil {
		p.Attachments = datatypes.JSONSlice[models.ProjectAttachment]{}
	}
	for _, a := range uploaded {
		if isImage(a.MimeType) {
			p.Images = append(p.Images, a.URL)
		} else {
			p.Attachments = append(p.Attachments, a)
		}
	}
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := map[string]bool{}
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func moderationSummary(a *Assessment) *dto.ModerationSummary {
	if a == nil {
		return nil
	}
	return &dto.ModerationSummary{
		Status:     string(a.Status),
		Score:      a.Score,
		Verdict:    string(a.Verdict),
		Categories: a.Categories,
	}
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
