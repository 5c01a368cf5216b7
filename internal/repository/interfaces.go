package repository

import (
	"context"

	"github.com/rewear/exchange-service/internal/model"
)

// Store aggregates the entity repositories behind a single persistence
// boundary. Implementations: Postgres (sqlx) and in-memory.
type Store interface {
	Users() UserRepository
	Items() ItemRepository
	SwapRequests() SwapRequestRepository
	Swaps() SwapRepository
	Points() PointsRepository
	Notifications() NotificationRepository

	// WithinTx runs fn against a transactional view of the store. If fn
	// returns an error, none of its writes are applied. Mutations that must
	// be atomic across entities (finalization in particular) go through here.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

// UserRepository defines user directory data access methods.
// Lookups return (nil, nil) when the user does not exist.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Count(ctx context.Context) (int, error)
}

// ItemRepository defines item catalog data access methods.
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	GetByID(ctx context.Context, id string) (*model.Item, error)
	Search(ctx context.Context, filter model.ItemFilter) ([]model.Item, int, error)
	Update(ctx context.Context, item *model.Item) error

	// UpdateStatus performs a compare-and-swap on the item status and
	// reports whether the row was in the expected state. This is the
	// exclusive-update primitive the swapped transition relies on.
	UpdateStatus(ctx context.Context, id string, from, to model.ItemStatus) (bool, error)

	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status model.ItemStatus) (int, error)
}

// SwapRequestRepository defines swap request data access methods.
type SwapRequestRepository interface {
	Create(ctx context.Context, request *model.SwapRequest) error
	GetByID(ctx context.Context, id string) (*model.SwapRequest, error)
	ListByRequester(ctx context.Context, requesterID string) ([]model.SwapRequest, error)
	ListByItem(ctx context.Context, itemID string) ([]model.SwapRequest, error)
	ListPendingByItem(ctx context.Context, itemID string) ([]model.SwapRequest, error)

	// UpdateStatus performs a compare-and-swap on the request status and
	// reports whether the row was in the expected state.
	UpdateStatus(ctx context.Context, id string, from, to model.SwapRequestStatus) (bool, error)

	// HasPending reports whether the requester already has an open request
	// for the item.
	HasPending(ctx context.Context, itemID, requesterID string) (bool, error)
}

// SwapRepository defines completed swap data access methods. Swap records
// are append-only: there is no update or delete.
type SwapRepository interface {
	Create(ctx context.Context, swap *model.Swap) error
	GetByRequestID(ctx context.Context, requestID string) (*model.Swap, error)
	ListByUser(ctx context.Context, userID string) ([]model.Swap, error)
	Count(ctx context.Context) (int, error)
}

// PointsRepository defines ledger data access methods. Entries are
// append-only; a balance is always derived with SumByUser.
type PointsRepository interface {
	Insert(ctx context.Context, transaction *model.PointsTransaction) error
	SumByUser(ctx context.Context, userID string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]model.PointsTransaction, error)
	SumByTypes(ctx context.Context, types ...model.PointsTransactionType) (int64, error)
}

// NotificationRepository defines notification data access methods.
type NotificationRepository interface {
	Insert(ctx context.Context, notification *model.Notification) error
	GetByID(ctx context.Context, id string) (*model.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, id string) (bool, error)
}
