package services_test

import (
	"context"
	"testing"
	"time"

	"freelance_backend/internal/auth"
	"freelance_backend/internal/models"
	"freelance_backend/internal/moderation"
	"freelance_backend/internal/notify"
	"freelance_backend/internal/services"
	"freelance_backend/internal/services/dto"
	"freelance_backend/internal/storage"
	"freelance_backend/pkg/apperrors"
	"freelance_backend/test/helpers"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	ctx      context.Context
	db       *gorm.DB
	storage  *storage.LocalStorage
	recorder *notify.Recorder
	svc      *services.ServiceContainer
}

type envOption func(*services.Repositories, *services.Dependencies)

func withModerator(m moderation.Moderator) envOption {
	return func(_ *services.Repositories, d *services.Dependencies) { d.Moderator = m }
}

func withRepos(wrap func(inner services.Repositories) services.Repositories) envOption {
	return func(r *services.Repositories, _ *services.Dependencies) { *r = wrap(*r) }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	st := helpers.NewTestStorage(t)
	rec := &notify.Recorder{}

	repos := services.NewRepositories()
	deps := services.Dependencies{
		Storage:   st,
		Moderator: moderation.NewEngine(),
		Notifier:  rec,
		Upload: services.UploadPolicy{
			MaxSize:      1 << 20,
			MaxFiles:     5,
			AllowedTypes: []string{"image/png", "image/jpeg", "application/pdf"},
			Concurrency:  2,
		},
	}
	for _, opt := range opts {
		opt(&repos, &deps)
	}

	return &testEnv{
		ctx:      context.Background(),
		db:       helpers.NewTestDB(t),
		storage:  st,
		recorder: rec,
		svc:      services.NewServiceContainer(repos, deps),
	}
}

// downModerator имитирует недоступный удаленный бэкенд
type downModerator struct{}

func (downModerator) Moderate(context.Context, string, moderation.Options) (*moderation.Result, error) {
	return nil, moderation.ErrBackendUnavailable
}

func cleanProjectRequest() *dto.CreateProjectRequest {
	budget := 50000.0
	deadline := time.Now().Add(30 * 24 * time.Hour)
	return &dto.CreateProjectRequest{
		Title:        "Landing page for a coffee shop",
		Description:  "Need a responsive landing page with a menu and a contact form.",
		Category:     "web",
		Skills:       []string{"html", "css", "HTML"},
		BudgetType:   models.BudgetTypeFixed,
		BudgetAmount: &budget,
		IsRemote:     true,
		Deadline:     &deadline,
	}
}

func (e *testEnv) createProject(t *testing.T, client auth.Actor, files ...dto.FileUpload) *dto.ProjectResponse {
	t.Helper()
	res, err := e.svc.ProjectService.CreateProject(e.ctx, e.db, client, cleanProjectRequest(), files)
	require.NoError(t, err)
	require.Equal(t, string(models.ProjectStatusPublished), res.Project.Status)
	return res.Project
}

func (e *testEnv) submitBid(t *testing.T, freelancer auth.Actor, projectID string, price float64, days int) *dto.BidResponse {
	t.Helper()
	bid, err := e.svc.BidService.SubmitBid(e.ctx, e.db, freelancer, &dto.SubmitBidRequest{
		OrderID:      projectID,
		Proposal:     "I have built many similar landing pages and can start today.",
		Price:        price,
		DeliveryDays: days,
	})
	require.NoError(t, err)
	return bid
}

func (e *testEnv) loadProject(t *testing.T, id string) models.Project {
	t.Helper()
	var p models.Project
	require.NoError(t, e.db.First(&p, "id = ?", id).Error)
	return p
}

func (e *testEnv) loadBid(t *testing.T, id string) models.Bid {
	t.Helper()
	var b models.Bid
	require.NoError(t, e.db.First(&b, "id = ?", id).Error)
	return b
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, apperrors.HasCode(err, code), "expected %s, got %v", code, err)
}
