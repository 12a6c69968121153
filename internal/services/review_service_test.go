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

func intPtr(v int) *int { return &v }

func TestCreateReview_SelfReviewRejected(t *testing.T) {
	env := newTestEnv(t)
	user := helpers.NewActor(models.UserRoleFreelancer)

	_, err := env.svc.ReviewService.CreateReview(env.ctx, env.db, user, &dto.CreateReviewRequest{
		TargetID: user.ID,
		Rating:   5,
	})
	require.ErrorIs(t, err, apperrors.ErrSelfReview)
}

func TestCreateReview_AutoVerifiedForCompletedProject(t *testing.T) {
	env := newTestEnv(t)
	client := helpers.NewActor(models.UserRoleClient)
	freelancer := helpers.NewActor(models.UserRoleFreelancer)
	p := env.createProject(t, client)
	bid := env.submitBid(t, freelancer, p.ID, 45000, 7)

	_, err := env.svc.AcceptanceService.AcceptBid(env.ctx, env.db, client, bid.ID)
	require.NoError(t, err)

	// пока проект не завершен, отзыв не подтверждается
	early, err := env.svc.ReviewService.CreateReview(env.ctx, env.db, freelancer, &dto.CreateReviewRequest{
		TargetID:  client.ID,
		ProjectID: &p.ID,
		Rating:    4,
	})
	require.NoError(t, err)
	assert.False(t, early.IsVerified)

	_, err = env.svc.ProjectService.PatchStatus(env.ctx, env.db, client, p.ID, models.ProjectStatusCompleted)
	require.NoError(t, err)

	review, err := env.svc.ReviewService.CreateReview(env.ctx, env.db, client, &dto.CreateReviewRequest{
		TargetID:     freelancer.ID,
		ProjectID:    &p.ID,
		Rating:       5,
		Comment:      "Great work, delivered on time.",
		QualityScore: intPtr(5),
	})
	require.NoError(t, err)
	assert.True(t, review.IsVerified)

	_, err = env.svc.ReviewService.CreateReview(env.ctx, env.db, client, &dto.CreateReviewRequest{
		TargetID:  freelancer.ID,
		ProjectID: &p.ID,
		Rating:    1,
	})
	requireCode(t, err, apperrors.CodeConflict)
}

func TestReplyToReview_OnlyTargetAndOnce(t *testing.T) {
	env := newTestEnv(t)
	author := helpers.NewActor(models.UserRoleClient)
	target := helpers.NewActor(models.UserRoleFreelancer)

	review, err := env.svc.ReviewService.CreateReview(env.ctx, env.db, author, &dto.CreateReviewRequest{
		TargetID: target.ID,
		Rating:   3,
		Comment:  "Okay result.",
	})
	require.NoError(t, err)

	_, err = env.svc.ReviewService.ReplyToReview(env.ctx, env.db, author, review.ID, "Replying to myself")
	requireCode(t, err, apperrors.CodeForbidden)

	replied, err := env.svc.ReviewService.ReplyToReview(env.ctx, env.db, target, review.ID, "  Thanks for the feedback  ")
	require.NoError(t, err)
	require.NotNil(t, replied.Reply)
	assert.Equal(t, "Thanks for the feedback", *replied.Reply)
	assert.NotNil(t, replied.RepliedAt)

	_, err = env.svc.ReviewService.ReplyToReview(env.ctx, env.db, target, review.ID, "Second reply")
	require.ErrorIs(t, err, apperrors.ErrReviewAlreadyReplied)
}

func TestUserRating_CountsVerifiedOnly(t *testing.T) {
	env := newTestEnv(t)
	target := helpers.NewActor(models.UserRoleFreelancer)
	admin := helpers.NewActor(models.UserRoleAdmin)
	svc := env.svc.ReviewService

	first, err := svc.CreateReview(env.ctx, env.db, helpers.NewActor(models.UserRoleClient), &dto.CreateReviewRequest{
		TargetID: target.ID, Rating: 5, QualityScore: intPtr(4),
	})
	require.NoError(t, err)
	_, err = svc.CreateReview(env.ctx, env.db, helpers.NewActor(models.UserRoleClient), &dto.CreateReviewRequest{
		TargetID: target.ID, Rating: 1,
	})
	require.NoError(t, err)

	rating, err := svc.GetUserRating(env.ctx, env.db, target.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rating.TotalReviews)

	_, err = svc.VerifyReview(env.ctx, env.db, helpers.NewActor(models.UserRoleClient), first.ID, true)
	requireCode(t, err, apperrors.CodeForbidden)

	verified, err := svc.VerifyReview(env.ctx, env.db, admin, first.ID, true)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)

	rating, err = svc.GetUserRating(env.ctx, env.db, target.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rating.TotalReviews)
	assert.InDelta(t, 5.0, rating.AverageRating, 0.001)
	require.NotNil(t, rating.QualityAvg)
	assert.InDelta(t, 4.0, *rating.QualityAvg, 0.001)
	assert.Nil(t, rating.PriceAvg)

	all, err := svc.ListUserReviews(env.ctx, env.db, target.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)
}
