package services_test

import (
	"sync"
	"testing"

	"freelance_backend/internal/models"
	"freelance_backend/pkg/apperrors"
	"freelance_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptBid_AcceptsOneAndRejectsOthers(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	f1 := helpers.NewActor(models.UserRoleFreelancer)
	f2 := helpers.NewActor(models.UserRoleFreelancer)
	p := env.createProject(t, client)

	bid1 := env.submitBid(t, f1, p.ID, 45000, 7)
	bid2 := env.submitBid(t, f2, p.ID, 48000, 5)
	require.Equal(t, 2, env.loadProject(t, p.ID).ProposalsCount)

	res, err := env.svc.AcceptanceService.AcceptBid(env.ctx, env.db, client, bid1.ID)
	require.NoError(t, err)

	assert.Equal(t, "accepted", res.Bid.Status)
	assert.Equal(t, "in_progress", res.Project.Status)
	require.NotNil(t, res.Project.AcceptedBidID)
	assert.Equal(t, bid1.ID, *res.Project.AcceptedBidID)
	assert.Equal(t, []string{bid2.ID}, res.RejectedBidIDs)

	assert.Equal(t, models.BidStatusAccepted, env.loadBid(t, bid1.ID).Status)
	assert.Equal(t, models.BidStatusRejected, env.loadBid(t, bid2.ID).Status)
	assert.Equal(t, models.ProjectStatusInProgress, env.loadProject(t, p.ID).Status)

	accepted := env.recorder.ByType("bid.accepted")
	require.Len(t, accepted, 1)
	assert.Equal(t, []string{f1.ID}, accepted[0].Recipients)
	rejected := env.recorder.ByType("bid.rejected")
	require.Len(t, rejected, 1)
	assert.Equal(t, []string{f2.ID}, rejected[0].Recipients)

	// проигравший отклик больше нельзя ни принять, ни изменить
	_, err = env.svc.AcceptanceService.AcceptBid(env.ctx, env.db, f2, bid2.ID)
	requireCode(t, err, apperrors.CodeInvalidState)
	_, err = env.svc.BidService.UpdateBidStatus(env.ctx, env.db, f2, bid2.ID, models.BidStatusWithdrawn)
	requireCode(t, err, apperrors.CodeInvalidState)
}

func TestAcceptBid_RequiresProjectOwner(t *testing.T) {
	env := newTestEnv(t)
	freelancer := helpers.NewActor(models.UserRoleFreelancer)
	p := env.createProject(t, helpers.NewActor(models.UserRoleClient))
	bid := env.submitBid(t, freelancer, p.ID, 45000, 7)

	_, err := env.svc.AcceptanceService.AcceptBid(env.ctx, env.db, freelancer, bid.ID)
	requireCode(t, err, apperrors.CodeForbidden)

	assert.Equal(t, models.BidStatusPending, env.loadBid(t, bid.ID).Status)
	assert.Equal(t, models.ProjectStatusPublished, env.loadProject(t, p.ID).Status)
	assert.Empty(t, env.recorder.ByType("bid.accepted"))
}

func TestAcceptBid_ProjectNotOpen(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	p := env.createProject(t, client)
	bid := env.submitBid(t, helpers.NewActor(models.UserRoleFreelancer), p.ID, 45000, 7)

	_, err := env.svc.ProjectService.PatchStatus(env.ctx, env.db, client, p.ID, models.ProjectStatusCancelled)
	require.NoError(t, err)

	_, err = env.svc.AcceptanceService.AcceptBid(env.ctx, env.db, client, bid.ID)
	requireCode(t, err, apperrors.CodeInvalidState)
	assert.Equal(t, models.BidStatusPending, env.loadBid(t, bid.ID).Status)
}

func TestAcceptBid_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.AcceptanceService.AcceptBid(env.ctx, env.db, helpers.NewActor(models.UserRoleClient),
		"00000000-0000-0000-0000-000000000000")
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestAcceptBid_ConcurrentAcceptsHaveOneWinner(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	p := env.createProject(t, client)

	const bidders = 4
	bidIDs := make([]string, bidders)
	for i := range bidIDs {
		bidIDs[i] = env.submitBid(t, helpers.NewActor(models.UserRoleFreelancer), p.ID, float64(40000+i*1000), 7).ID
	}

	errs := make([]error, bidders)
	var wg sync.WaitGroup
	for i := range bidIDs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.AcceptanceService.AcceptBid(env.ctx, env.db, client, bidIDs[i])
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.True(t,
			apperrors.HasCode(err, apperrors.CodeConflict) || apperrors.HasCode(err, apperrors.CodeInvalidState),
			"unexpected error: %v", err)
	}
	assert.Equal(t, 1, winners)

	var accepted int64
	require.NoError(t, env.db.Model(&models.Bid{}).
		Where("project_id = ? AND status = ?", p.ID, models.BidStatusAccepted).
		Count(&accepted).Error)
	assert.EqualValues(t, 1, accepted)

	stored := env.loadProject(t, p.ID)
	assert.Equal(t, models.ProjectStatusInProgress, stored.Status)
	require.NotNil(t, stored.AcceptedBidID)
}
