package services_test

import (
	"testing"

	"freelance_backend/internal/models"
	"freelance_backend/pkg/apperrors"
	"freelance_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavorites_ToggleIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := helpers.NewActor(models.UserRoleFreelancer)
	p := env.createProject(t, helpers.NewActor(models.UserRoleClient))
	svc := env.svc.FavoriteService

	_, err := svc.AddFavorite(env.ctx, env.db, user, p.ID)
	require.NoError(t, err)
	_, err = svc.AddFavorite(env.ctx, env.db, user, p.ID)
	require.NoError(t, err)

	off, err := svc.RemoveFavorite(env.ctx, env.db, user, p.ID)
	require.NoError(t, err)
	assert.False(t, off.IsFavorite)
	_, err = svc.RemoveFavorite(env.ctx, env.db, user, p.ID)
	require.NoError(t, err, "removing a missing favorite is not an error")

	on, err := svc.AddFavorite(env.ctx, env.db, user, p.ID)
	require.NoError(t, err)
	assert.True(t, on.IsFavorite)

	var rows int64
	env.db.Model(&models.Favorite{}).Where("user_id = ? AND project_id = ?", user.ID, p.ID).Count(&rows)
	assert.EqualValues(t, 1, rows)

	check, err := svc.CheckFavorite(env.ctx, env.db, user, p.ID)
	require.NoError(t, err)
	assert.True(t, check.IsFavorite)

	list, err := svc.ListFavorites(env.ctx, env.db, user, 1, 10)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, p.ID, list.Items[0].ID)
}

func TestFavorites_MissingProject(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.FavoriteService.AddFavorite(env.ctx, env.db, helpers.NewActor(models.UserRoleFreelancer),
		"00000000-0000-0000-0000-000000000000")
	requireCode(t, err, apperrors.CodeNotFound)
}
