package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/events"
	"github.com/rewear/exchange-service/internal/model"
	"github.com/rewear/exchange-service/internal/repository"
)

// testEnv wires every service against a shared in-memory store
type testEnv struct {
	store         *repository.MemoryStore
	notifications *NotificationService
	points        *PointsService
	eligibility   *EligibilityService
	requests      *SwapRequestService
	swaps         *SwapService
	items         *ItemService
	admin         *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repository.NewMemoryStore()
	logger := zap.NewNop()
	publisher := events.NoopPublisher{}

	notifications := NewNotificationService(store, logger)
	eligibility := NewEligibilityService(store, logger)
	return &testEnv{
		store:         store,
		notifications: notifications,
		points:        NewPointsService(store, logger),
		eligibility:   eligibility,
		requests:      NewSwapRequestService(store, eligibility, notifications, publisher, logger),
		swaps:         NewSwapService(store, notifications, publisher, 5, logger),
		items:         NewItemService(store, logger),
		admin:         NewAdminService(store, notifications, logger),
	}
}

func seedUser(t *testing.T, store repository.Store, name string) *model.User {
	t.Helper()
	user := &model.User{
		ID:        uuid.NewString(),
		Email:     name + "@example.com",
		Name:      name,
		Role:      model.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func seedItem(t *testing.T, store repository.Store, ownerID string, status model.ItemStatus, points int64) *model.Item {
	t.Helper()
	now := time.Now().UTC()
	item := &model.Item{
		ID:          uuid.NewString(),
		Title:       "Vintage Denim Jacket",
		Description: "Classic 90s denim jacket",
		Category:    model.CategoryOuterwear,
		Type:        model.TypeVintage,
		Size:        model.SizeM,
		Condition:   model.ConditionGood,
		Status:      status,
		Points:      points,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, store.Items().Create(context.Background(), item))
	return item
}

func grantPoints(t *testing.T, store repository.Store, userID string, amount int64) {
	t.Helper()
	require.NoError(t, store.Points().Insert(context.Background(), &model.PointsTransaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      model.PointsBonus,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}))
}
