package services_test

import (
	"errors"
	"testing"
	"time"

	"freelance_backend/internal/auth"
	"freelance_backend/internal/models"
	"freelance_backend/internal/repositories"
	"freelance_backend/internal/services"
	"freelance_backend/internal/services/dto"
	"freelance_backend/internal/storage"
	"freelance_backend/pkg/apperrors"
	"freelance_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateProject_CleanContentIsPublished(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)

	res, err := env.svc.ProjectService.CreateProject(env.ctx, env.db, client, cleanProjectRequest(), nil)
	require.NoError(t, err)

	p := res.Project
	assert.Equal(t, client.ID, p.ClientID)
	assert.Equal(t, "published", p.Status)
	assert.Equal(t, "approved", p.ModerationStatus)
	assert.NotNil(t, p.PublishedAt)
	assert.Equal(t, "KZT", p.Currency)
	assert.Equal(t, []string{"html", "css"}, p.Skills)
	assert.Equal(t, "clean", res.Moderation.Verdict)
	assert.Empty(t, res.Uploads.Uploaded)
	assert.Empty(t, res.Uploads.Failed)
}

func TestCreateProject_DraftStaysDraft(t *testing.T) {
	env := newTestEnv(t)
	req := cleanProjectRequest()
	req.Status = models.ProjectStatusDraft

	res, err := env.svc.ProjectService.CreateProject(env.ctx, env.db, helpers.NewActor(models.UserRoleClient), req, nil)
	require.NoError(t, err)
	assert.Equal(t, "draft", res.Project.Status)
	assert.Nil(t, res.Project.PublishedAt)
}

func TestCreateProject_FlaggedContentGoesPending(t *testing.T) {
	env := newTestEnv(t)
	req := cleanProjectRequest()
	// casino: 25 баллов, выше строгого порога 15
	req.Description = "Landing page for an online casino with a bonus section."

	res, err := env.svc.ProjectService.CreateProject(env.ctx, env.db, helpers.NewActor(models.UserRoleClient), req, nil)
	require.NoError(t, err)
	assert.Equal(t, "pending", res.Project.Status)
	assert.Equal(t, "pending_review", res.Project.ModerationStatus)
	assert.Nil(t, res.Project.PublishedAt)
	assert.Contains(t, res.Moderation.Categories, "spam")
}

func TestCreateProject_RejectedContentFails(t *testing.T) {
	env := newTestEnv(t)
	req := cleanProjectRequest()
	req.Description = "fuck this shit, bitch"

	_, err := env.svc.ProjectService.CreateProject(env.ctx, env.db, helpers.NewActor(models.UserRoleClient), req, nil)
	requireCode(t, err, apperrors.CodeValidationFailed)

	var count int64
	env.db.Model(&models.Project{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateProject_UnavailableModerationBlocksPublication(t *testing.T) {
	env := newTestEnv(t, withModerator(downModerator{}))

	res, err := env.svc.ProjectService.CreateProject(env.ctx, env.db, helpers.NewActor(models.UserRoleClient), cleanProjectRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, "pending", res.Project.Status)
	assert.Equal(t, "unverified", res.Project.ModerationStatus)
}

func TestCreateProject_UploadReportsFailures(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)

	res, err := env.svc.ProjectService.CreateProject(env.ctx, env.db, client, cleanProjectRequest(), []dto.FileUpload{
		helpers.NewFileUpload("cover.PNG", helpers.PNGBytes),
		helpers.NewFileUpload("brief.pdf", helpers.PDFBytes),
		helpers.NewFileUpload("notes.txt", []byte("plain text is not allowed")),
	})
	require.NoError(t, err)

	require.Len(t, res.Uploads.Uploaded, 2)
	require.Len(t, res.Uploads.Failed, 1)
	assert.Equal(t, "notes.txt", res.Uploads.Failed[0].Name)

	require.Len(t, res.Project.Images, 1)
	require.Len(t, res.Project.Attachments, 1)
	assert.Equal(t, "application/pdf", res.Project.Attachments[0].MimeType)

	keys, err := env.storage.List(env.ctx, storage.ProjectPrefix(res.Project.ID))
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	for _, k := range keys {
		assert.NotContains(t, k, "PNG", "extension is lowercased")
	}
}

func TestGetProject_IncrementsViews(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProject(t, helpers.NewActor(models.UserRoleClient))

	const reads = 5
	var last *dto.ProjectResponse
	for i := 0; i < reads; i++ {
		got, err := env.svc.ProjectService.GetProject(env.ctx, env.db, auth.Actor{}, p.ID)
		require.NoError(t, err)
		last = got
	}
	assert.Equal(t, reads, last.ViewsCount)
	assert.Equal(t, reads, env.loadProject(t, p.ID).ViewsCount)
}

func TestGetProject_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.ProjectService.GetProject(env.ctx, env.db, auth.Actor{}, "00000000-0000-0000-0000-000000000000")
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestGetProject_HiddenStatusesOnlyForOwnerAndStaff(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)

	req := cleanProjectRequest()
	req.Status = models.ProjectStatusDraft
	created, err := env.svc.ProjectService.CreateProject(env.ctx, env.db, client, req, nil)
	require.NoError(t, err)
	id := created.Project.ID

	_, err = env.svc.ProjectService.GetProject(env.ctx, env.db, auth.Actor{}, id)
	requireCode(t, err, apperrors.CodeNotFound)
	_, err = env.svc.ProjectService.GetProject(env.ctx, env.db, helpers.NewActor(models.UserRoleFreelancer), id)
	requireCode(t, err, apperrors.CodeNotFound)

	own, err := env.svc.ProjectService.GetProject(env.ctx, env.db, client, id)
	require.NoError(t, err)
	assert.Equal(t, "draft", own.Status)

	_, err = env.svc.ProjectService.GetProject(env.ctx, env.db, helpers.NewActor(models.UserRoleModerator), id)
	require.NoError(t, err)

	assert.Zero(t, env.loadProject(t, id).ViewsCount)
}

func TestListProjects_OnlyPublishedWithFilters(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)

	env.createProject(t, client)
	draft := cleanProjectRequest()
	draft.Status = models.ProjectStatusDraft
	_, err := env.svc.ProjectService.CreateProject(env.ctx, env.db, client, draft, nil)
	require.NoError(t, err)

	page, err := env.svc.ProjectService.ListProjects(env.ctx, env.db, &dto.ProjectListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	min := 60000.0
	page, err = env.svc.ProjectService.ListProjects(env.ctx, env.db, &dto.ProjectListQuery{BudgetMin: &min})
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.Total)
	assert.NotNil(t, page.Items)

	mine, err := env.svc.ProjectService.ListMyProjects(env.ctx, env.db, client, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, mine.Total)
}

func TestUpdateProject_RequiresOwner(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProject(t, helpers.NewActor(models.UserRoleClient))

	title := "Another title"
	_, err := env.svc.ProjectService.UpdateProject(env.ctx, env.db, helpers.NewActor(models.UserRoleClient), p.ID,
		&dto.UpdateProjectRequest{Title: &title}, nil)
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestUpdateProject_MergesOnlyProvidedFields(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	p := env.createProject(t, client)

	urgent := true
	res, err := env.svc.ProjectService.UpdateProject(env.ctx, env.db, client, p.ID,
		&dto.UpdateProjectRequest{IsUrgent: &urgent}, nil)
	require.NoError(t, err)

	assert.True(t, res.Project.IsUrgent)
	assert.Equal(t, p.Title, res.Project.Title)
	assert.Equal(t, p.Description, res.Project.Description)
	assert.Equal(t, "published", res.Project.Status)
	assert.Nil(t, res.Moderation, "no text changed, no re-moderation")
}

func TestUpdateProject_OnSiteRequiresCity(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	p := env.createProject(t, client)

	onSite := false
	_, err := env.svc.ProjectService.UpdateProject(env.ctx, env.db, client, p.ID,
		&dto.UpdateProjectRequest{IsRemote: &onSite}, nil)
	requireCode(t, err, apperrors.CodeValidationFailed)
	assert.True(t, env.loadProject(t, p.ID).IsRemote)

	city := "Almaty"
	res, err := env.svc.ProjectService.UpdateProject(env.ctx, env.db, client, p.ID,
		&dto.UpdateProjectRequest{IsRemote: &onSite, City: &city}, nil)
	require.NoError(t, err)
	assert.False(t, res.Project.IsRemote)
	assert.Equal(t, "Almaty", res.Project.City)

	// город уже сохранен, второй PATCH без city проходит
	urgent := true
	_, err = env.svc.ProjectService.UpdateProject(env.ctx, env.db, client, p.ID,
		&dto.UpdateProjectRequest{IsUrgent: &urgent}, nil)
	require.NoError(t, err)

	empty := " "
	_, err = env.svc.ProjectService.UpdateProject(env.ctx, env.db, client, p.ID,
		&dto.UpdateProjectRequest{City: &empty}, nil)
	requireCode(t, err, apperrors.CodeValidationFailed)
}

func TestUpdateProject_FlaggedTextMovesPublishedToPending(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	p := env.createProject(t, client)

	desc := "Now with a casino section and bonus codes."
	res, err := env.svc.ProjectService.UpdateProject(env.ctx, env.db, client, p.ID,
		&dto.UpdateProjectRequest{Description: &desc}, nil)
	require.NoError(t, err)

	assert.Equal(t, "pending", res.Project.Status)
	assert.Equal(t, "pending_review", res.Project.ModerationStatus)
	require.NotNil(t, res.Project.PublishedAt, "published_at is never cleared")
	assert.WithinDuration(t, *p.PublishedAt, *res.Project.PublishedAt, time.Second)
}

func TestUpdateProject_PriceRequestClearsBudget(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	p := env.createProject(t, client)

	bt := models.BudgetTypePriceRequest
	res, err := env.svc.ProjectService.UpdateProject(env.ctx, env.db, client, p.ID,
		&dto.UpdateProjectRequest{BudgetType: &bt}, nil)
	require.NoError(t, err)
	assert.Equal(t, "price_request", res.Project.BudgetType)
	assert.Nil(t, res.Project.BudgetAmount)
}

func TestUpdateProject_ExistingImagesRemovesDropped(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	p := env.createProject(t, client,
		helpers.NewFileUpload("a.png", helpers.PNGBytes),
		helpers.NewFileUpload("b.png", helpers.PNGBytes),
	)
	require.Len(t, p.Images, 2)
	keep, drop := p.Images[0], p.Images[1]

	res, err := env.svc.ProjectService.UpdateProject(env.ctx, env.db, client, p.ID, &dto.UpdateProjectRequest{
		ExistingImages: &[]string{keep, "/uploads/projects/foreign/x.png"},
	}, []dto.FileUpload{helpers.NewFileUpload("c.png", helpers.PNGBytes)})
	require.NoError(t, err)

	require.Len(t, res.Project.Images, 2)
	assert.Equal(t, keep, res.Project.Images[0])
	assert.Equal(t, []string{drop}, res.RemovedImages)
	assert.Len(t, res.Uploads.Uploaded, 1)

	dropKey, ok := env.storage.KeyFromURL(drop)
	require.True(t, ok)
	exists, err := env.storage.Exists(env.ctx, dropKey)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpdateProject_CompletedIsFinal(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	p := env.createProject(t, client)
	require.NoError(t, env.db.Model(&models.Project{}).Where("id = ?", p.ID).Update("status", models.ProjectStatusCompleted).Error)

	title := "Too late"
	_, err := env.svc.ProjectService.UpdateProject(env.ctx, env.db, client, p.ID, &dto.UpdateProjectRequest{Title: &title}, nil)
	requireCode(t, err, apperrors.CodeInvalidState)
}

func TestPatchStatus_Transitions(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	p := env.createProject(t, client)
	svc := env.svc.ProjectService

	// тот же статус - no-op
	same, err := svc.PatchStatus(env.ctx, env.db, client, p.ID, models.ProjectStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, p.PublishedAt.Unix(), same.PublishedAt.Unix())

	_, err = svc.PatchStatus(env.ctx, env.db, client, p.ID, models.ProjectStatusDraft)
	requireCode(t, err, apperrors.CodeInvalidState)

	cancelled, err := svc.PatchStatus(env.ctx, env.db, client, p.ID, models.ProjectStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	reopened, err := svc.PatchStatus(env.ctx, env.db, client, p.ID, models.ProjectStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, "published", reopened.Status)
	assert.Equal(t, p.PublishedAt.Unix(), reopened.PublishedAt.Unix(), "published_at is stamped once")

	_, err = svc.PatchStatus(env.ctx, env.db, helpers.NewActor(models.UserRoleClient), p.ID, models.ProjectStatusCancelled)
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestPatchStatus_PublishRequiresApprovedModeration(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)

	req := cleanProjectRequest()
	req.Status = models.ProjectStatusDraft
	req.Description = "Landing page for an online casino with a bonus section."
	res, err := env.svc.ProjectService.CreateProject(env.ctx, env.db, client, req, nil)
	require.NoError(t, err)

	_, err = env.svc.ProjectService.PatchStatus(env.ctx, env.db, client, res.Project.ID, models.ProjectStatusPublished)
	requireCode(t, err, apperrors.CodeInvalidState)
	assert.Equal(t, models.ProjectStatusDraft, env.loadProject(t, res.Project.ID).Status)
}

func TestPatchStatus_RechecksUnverifiedModeration(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)

	req := cleanProjectRequest()
	req.Status = models.ProjectStatusDraft
	res, err := env.svc.ProjectService.CreateProject(env.ctx, env.db, client, req, nil)
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&models.Project{}).Where("id = ?", res.Project.ID).
		Update("moderation_status", models.ModerationUnverified).Error)

	published, err := env.svc.ProjectService.PatchStatus(env.ctx, env.db, client, res.Project.ID, models.ProjectStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, "published", published.Status)
	assert.Equal(t, "approved", published.ModerationStatus)
	assert.NotNil(t, published.PublishedAt)
}

func TestDeleteProject_RemovesFilesAndDependents(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	freelancer := helpers.NewActor(models.UserRoleFreelancer)

	p := env.createProject(t, client,
		helpers.NewFileUpload("a.png", helpers.PNGBytes),
		helpers.NewFileUpload("b.pdf", helpers.PDFBytes),
	)
	env.submitBid(t, freelancer, p.ID, 45000, 7)
	_, err := env.svc.FavoriteService.AddFavorite(env.ctx, env.db, freelancer, p.ID)
	require.NoError(t, err)

	res, err := env.svc.ProjectService.DeleteProject(env.ctx, env.db, client, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "hard", res.Mode)
	assert.Len(t, res.RemovedFiles, 2)
	assert.Empty(t, res.FailedFiles)

	keys, err := env.storage.List(env.ctx, storage.ProjectPrefix(p.ID))
	require.NoError(t, err)
	assert.Empty(t, keys)

	var bids, favs, projects int64
	env.db.Model(&models.Bid{}).Where("project_id = ?", p.ID).Count(&bids)
	env.db.Model(&models.Favorite{}).Where("project_id = ?", p.ID).Count(&favs)
	env.db.Model(&models.Project{}).Where("id = ?", p.ID).Count(&projects)
	assert.Zero(t, bids)
	assert.Zero(t, favs)
	assert.Zero(t, projects)
}

// failingDeleteRepo - репозиторий, у которого физическое удаление всегда падает
type failingDeleteRepo struct {
	repositories.ProjectRepository
}

func (failingDeleteRepo) DeleteProject(*gorm.DB, string) error {
	return errors.New("foreign key violation")
}

func TestDeleteProject_FallsBackToSoftDelete(t *testing.T) {
	env := newTestEnv(t, withRepos(func(r services.Repositories) services.Repositories {
		r.Projects = failingDeleteRepo{ProjectRepository: r.Projects}
		return r
	}))
	client := helpers.NewActor(models.UserRoleClient)
	p := env.createProject(t, client, helpers.NewFileUpload("a.png", helpers.PNGBytes))

	res, err := env.svc.ProjectService.DeleteProject(env.ctx, env.db, client, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "soft", res.Mode)
	assert.Len(t, res.RemovedFiles, 1)

	stored := env.loadProject(t, p.ID)
	assert.Equal(t, models.ProjectStatusDeleted, stored.Status)
	assert.NotNil(t, stored.DeletedAt)

	_, err = env.svc.ProjectService.GetProject(env.ctx, env.db, auth.Actor{}, p.ID)
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestDeleteProject_RequiresOwner(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProject(t, helpers.NewActor(models.UserRoleClient))

	_, err := env.svc.ProjectService.DeleteProject(env.ctx, env.db, helpers.NewActor(models.UserRoleFreelancer), p.ID)
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestModerateProject_ApproveAndReject(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	admin := helpers.NewActor(models.UserRoleAdmin)

	req := cleanProjectRequest()
	req.Description = "Landing page for an online casino with a bonus section."
	created, err := env.svc.ProjectService.CreateProject(env.ctx, env.db, client, req, nil)
	require.NoError(t, err)
	require.Equal(t, "pending", created.Project.Status)

	queue, err := env.svc.ProjectService.ListModerationQueue(env.ctx, env.db, admin, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, queue.Total)

	_, err = env.svc.ProjectService.ListModerationQueue(env.ctx, env.db, client, 1, 20)
	requireCode(t, err, apperrors.CodeForbidden)

	approved, err := env.svc.ProjectService.ModerateProject(env.ctx, env.db, admin, created.Project.ID,
		&dto.ModerationDecisionRequest{Decision: "approve", Note: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "published", approved.Status)
	assert.Equal(t, "approved", approved.ModerationStatus)
	assert.NotNil(t, approved.PublishedAt)

	events := env.recorder.ByType("project.moderated")
	require.Len(t, events, 1)
	assert.Equal(t, []string{client.ID}, events[0].Recipients)

	second, err := env.svc.ProjectService.CreateProject(env.ctx, env.db, client, req, nil)
	require.NoError(t, err)
	rejected, err := env.svc.ProjectService.ModerateProject(env.ctx, env.db, helpers.NewActor(models.UserRoleModerator),
		second.Project.ID, &dto.ModerationDecisionRequest{Decision: "reject"})
	require.NoError(t, err)
	assert.Equal(t, "draft", rejected.Status)
	assert.Equal(t, "rejected", rejected.ModerationStatus)
}
