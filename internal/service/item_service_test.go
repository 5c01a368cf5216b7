package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rewear/exchange-service/internal/apperrors"
	"github.com/rewear/exchange-service/internal/model"
)

func TestCreateItemStartsPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")

	item, err := env.items.Create(ctx, owner.ID, model.ItemCreate{
		Title:       "Wool Coat",
		Description: "Warm winter coat",
		Category:    model.CategoryOuterwear,
		Type:        model.TypeFormal,
		Size:        model.SizeL,
		Condition:   model.ConditionExcellent,
		Points:      40,
		Images:      []model.ImageUpload{{ImageURL: "https://cdn.example.com/coat.jpg"}},
	})
	require.NoError(t, err)
	require.Equal(t, model.ItemStatusPending, item.Status)
	require.Len(t, item.Images, 1)
	require.True(t, item.Images[0].IsPrimary)
}

func TestCreateItemRejectsBadEnums(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")

	_, err := env.items.Create(ctx, owner.ID, model.ItemCreate{
		Title:       "Hat",
		Description: "A hat",
		Category:    "hats",
		Type:        model.TypeCasual,
		Size:        model.SizeM,
		Condition:   model.ConditionGood,
		Points:      5,
	})
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = env.items.Create(ctx, owner.ID, model.ItemCreate{
		Title:       "Hat",
		Description: "A hat",
		Category:    model.CategoryAccessories,
		Type:        model.TypeCasual,
		Size:        model.SizeM,
		Condition:   model.ConditionGood,
		Points:      0,
	})
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestUpdateItemOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")
	other := seedUser(t, env.store, "other")
	item := seedItem(t, env.store, owner.ID, model.ItemStatusAvailable, 10)

	title := "Renamed"
	_, err := env.items.Update(ctx, item.ID, other.ID, model.ItemUpdate{Title: &title})
	require.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	updated, err := env.items.Update(ctx, item.ID, owner.ID, model.ItemUpdate{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
}

func TestUpdateItemRejectedAfterTerminalState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")
	item := seedItem(t, env.store, owner.ID, model.ItemStatusSwapped, 10)

	title := "Renamed"
	_, err := env.items.Update(ctx, item.ID, owner.ID, model.ItemUpdate{Title: &title})
	require.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
}

func TestDeleteItemRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")
	other := seedUser(t, env.store, "other")

	item := seedItem(t, env.store, owner.ID, model.ItemStatusAvailable, 10)
	require.True(t, apperrors.IsKind(env.items.Delete(ctx, item.ID, other.ID), apperrors.KindForbidden))
	require.NoError(t, env.items.Delete(ctx, item.ID, owner.ID))

	swapped := seedItem(t, env.store, owner.ID, model.ItemStatusSwapped, 10)
	require.True(t, apperrors.IsKind(env.items.Delete(ctx, swapped.ID, owner.ID), apperrors.KindInvalidTransition))
}

func TestSearchDefaultsToAvailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")
	seedItem(t, env.store, owner.ID, model.ItemStatusAvailable, 10)
	seedItem(t, env.store, owner.ID, model.ItemStatusPending, 10)
	seedItem(t, env.store, owner.ID, model.ItemStatusSwapped, 10)

	items, total, err := env.items.Search(ctx, model.ItemFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, model.ItemStatusAvailable, items[0].Status)

	// An explicit owner view includes every status.
	_, total, err = env.items.Search(ctx, model.ItemFilter{UserID: owner.ID})
	require.NoError(t, err)
	require.Equal(t, 3, total)
}
