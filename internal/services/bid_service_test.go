package services_test

import (
	"testing"

	"freelance_backend/internal/models"
	"freelance_backend/internal/services/dto"
	"freelance_backend/pkg/apperrors"
	"freelance_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitBid_Success(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	freelancer := helpers.NewActor(models.UserRoleFreelancer)
	p := env.createProject(t, client)

	bid, err := env.svc.BidService.SubmitBid(env.ctx, env.db, freelancer, &dto.SubmitBidRequest{
		OrderID:      p.ID,
		FreelancerID: freelancer.ID,
		Proposal:     "I can deliver this in a week with two milestones.",
		Price:        45000,
		DeliveryDays: 7,
		Milestones: []dto.MilestoneRequest{
			{Title: "Design", Days: 3, Price: 20000},
			{Title: "Build", Days: 4, Price: 25000},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", bid.Status)
	assert.Equal(t, p.ID, bid.ProjectID)
	assert.Equal(t, freelancer.ID, bid.FreelancerID)
	assert.Len(t, bid.Milestones, 2)
	assert.Equal(t, 1, env.loadProject(t, p.ID).ProposalsCount)

	events := env.recorder.ByType("bid.submitted")
	require.Len(t, events, 1)
	assert.Equal(t, []string{client.ID}, events[0].Recipients)
}

func TestSubmitBid_DuplicateActiveBid(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProject(t, helpers.NewActor(models.UserRoleClient))
	freelancer := helpers.NewActor(models.UserRoleFreelancer)

	env.submitBid(t, freelancer, p.ID, 45000, 7)
	_, err := env.svc.BidService.SubmitBid(env.ctx, env.db, freelancer, &dto.SubmitBidRequest{
		OrderID:      p.ID,
		Proposal:     "Second attempt with a better price for you.",
		Price:        40000,
		DeliveryDays: 7,
	})
	requireCode(t, err, apperrors.CodeConflict)
	assert.Equal(t, 1, env.loadProject(t, p.ID).ProposalsCount)
}

func TestSubmitBid_ResubmitAfterWithdraw(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProject(t, helpers.NewActor(models.UserRoleClient))
	freelancer := helpers.NewActor(models.UserRoleFreelancer)

	first := env.submitBid(t, freelancer, p.ID, 45000, 7)
	_, err := env.svc.BidService.UpdateBidStatus(env.ctx, env.db, freelancer, first.ID, models.BidStatusWithdrawn)
	require.NoError(t, err)

	second := env.submitBid(t, freelancer, p.ID, 42000, 6)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, env.loadProject(t, p.ID).ProposalsCount)
}

func TestSubmitBid_OwnProjectForbidden(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	p := env.createProject(t, client)

	_, err := env.svc.BidService.SubmitBid(env.ctx, env.db, client, &dto.SubmitBidRequest{
		OrderID:      p.ID,
		Proposal:     "Bidding on my own project should not work.",
		Price:        100,
		DeliveryDays: 1,
	})
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestSubmitBid_ForeignFreelancerIDForbidden(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProject(t, helpers.NewActor(models.UserRoleClient))

	_, err := env.svc.BidService.SubmitBid(env.ctx, env.db, helpers.NewActor(models.UserRoleFreelancer), &dto.SubmitBidRequest{
		OrderID:      p.ID,
		FreelancerID: helpers.NewActor(models.UserRoleFreelancer).ID,
		Proposal:     "Submitting on behalf of somebody else.",
		Price:        100,
		DeliveryDays: 1,
	})
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestSubmitBid_ProjectNotPublished(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	req := cleanProjectRequest()
	req.Status = models.ProjectStatusDraft
	res, err := env.svc.ProjectService.CreateProject(env.ctx, env.db, client, req, nil)
	require.NoError(t, err)

	_, err = env.svc.BidService.SubmitBid(env.ctx, env.db, helpers.NewActor(models.UserRoleFreelancer), &dto.SubmitBidRequest{
		OrderID:      res.Project.ID,
		Proposal:     "Trying to bid on a draft project.",
		Price:        100,
		DeliveryDays: 1,
	})
	requireCode(t, err, apperrors.CodeInvalidState)
}

func TestSubmitBid_RejectedProposal(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProject(t, helpers.NewActor(models.UserRoleClient))

	_, err := env.svc.BidService.SubmitBid(env.ctx, env.db, helpers.NewActor(models.UserRoleFreelancer), &dto.SubmitBidRequest{
		OrderID:      p.ID,
		Proposal:     "fuck this shit, bitch",
		Price:        100,
		DeliveryDays: 1,
	})
	requireCode(t, err, apperrors.CodeValidationFailed)
}

func TestListProjectBids_Visibility(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	f1 := helpers.NewActor(models.UserRoleFreelancer)
	f2 := helpers.NewActor(models.UserRoleFreelancer)
	p := env.createProject(t, client)

	env.submitBid(t, f1, p.ID, 45000, 7)
	env.submitBid(t, f2, p.ID, 48000, 5)

	all, err := env.svc.BidService.ListProjectBids(env.ctx, env.db, client, p.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := env.svc.BidService.ListProjectBids(env.ctx, env.db, f1, p.ID, "")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, f1.ID, own[0].FreelancerID)

	admin, err := env.svc.BidService.ListProjectBids(env.ctx, env.db, helpers.NewActor(models.UserRoleAdmin), p.ID, "")
	require.NoError(t, err)
	assert.Len(t, admin, 2)

	mine, err := env.svc.BidService.ListMyBids(env.ctx, env.db, f2, models.BidStatusPending)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestGetBid_OnlyParticipants(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	freelancer := helpers.NewActor(models.UserRoleFreelancer)
	p := env.createProject(t, client)
	bid := env.submitBid(t, freelancer, p.ID, 45000, 7)

	_, err := env.svc.BidService.GetBid(env.ctx, env.db, client, bid.ID)
	require.NoError(t, err)
	_, err = env.svc.BidService.GetBid(env.ctx, env.db, freelancer, bid.ID)
	require.NoError(t, err)

	_, err = env.svc.BidService.GetBid(env.ctx, env.db, helpers.NewActor(models.UserRoleFreelancer), bid.ID)
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestUpdateBidStatus(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	freelancer := helpers.NewActor(models.UserRoleFreelancer)
	p := env.createProject(t, client)
	bid := env.submitBid(t, freelancer, p.ID, 45000, 7)
	svc := env.svc.BidService

	t.Run("accept is not allowed here", func(t *testing.T) {
		_, err := svc.UpdateBidStatus(env.ctx, env.db, client, bid.ID, models.BidStatusAccepted)
		requireCode(t, err, apperrors.CodeInvalidState)
	})

	t.Run("freelancer cannot reject", func(t *testing.T) {
		_, err := svc.UpdateBidStatus(env.ctx, env.db, freelancer, bid.ID, models.BidStatusRejected)
		requireCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("client cannot withdraw", func(t *testing.T) {
		_, err := svc.UpdateBidStatus(env.ctx, env.db, client, bid.ID, models.BidStatusWithdrawn)
		requireCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("owner rejects", func(t *testing.T) {
		res, err := svc.UpdateBidStatus(env.ctx, env.db, client, bid.ID, models.BidStatusRejected)
		require.NoError(t, err)
		assert.Equal(t, "rejected", res.Status)
		assert.NotNil(t, res.DecidedAt)

		events := env.recorder.ByType("bid.rejected")
		require.Len(t, events, 1)
		assert.Equal(t, []string{freelancer.ID}, events[0].Recipients)
	})

	t.Run("terminal bid stays terminal", func(t *testing.T) {
		_, err := svc.UpdateBidStatus(env.ctx, env.db, freelancer, bid.ID, models.BidStatusWithdrawn)
		requireCode(t, err, apperrors.CodeInvalidState)
		assert.Equal(t, models.BidStatusRejected, env.loadBid(t, bid.ID).Status)
	})
}
