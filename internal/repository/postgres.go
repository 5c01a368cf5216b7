package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// PostgresStore is the sqlx-backed Store implementation. The same struct
// serves both the pooled connection and a transaction-bound view; q is
// either the *sqlx.DB or a *sqlx.Tx.
type PostgresStore struct {
	db     *sqlx.DB
	q      sqlx.ExtContext
	logger *zap.Logger

	users         *postgresUserRepository
	items         *postgresItemRepository
	swapRequests  *postgresSwapRequestRepository
	swaps         *postgresSwapRepository
	points        *postgresPointsRepository
	notifications *postgresNotificationRepository
}

// NewPostgresStore creates a Store backed by the given database handle
func NewPostgresStore(db *sqlx.DB, logger *zap.Logger) *PostgresStore {
	s := &PostgresStore{db: db, q: db, logger: logger}
	s.init()
	return s
}

func (s *PostgresStore) init() {
	s.users = &postgresUserRepository{q: s.q, logger: s.logger}
	s.items = &postgresItemRepository{q: s.q, logger: s.logger}
	s.swapRequests = &postgresSwapRequestRepository{q: s.q, logger: s.logger}
	s.swaps = &postgresSwapRepository{q: s.q, logger: s.logger}
	s.points = &postgresPointsRepository{q: s.q, logger: s.logger}
	s.notifications = &postgresNotificationRepository{q: s.q, logger: s.logger}
}

// Users returns the user repository
func (s *PostgresStore) Users() UserRepository { return s.users }

// Items returns the item repository
func (s *PostgresStore) Items() ItemRepository { return s.items }

// SwapRequests returns the swap request repository
func (s *PostgresStore) SwapRequests() SwapRequestRepository { return s.swapRequests }

// Swaps returns the swap repository
func (s *PostgresStore) Swaps() SwapRepository { return s.swaps }

// Points returns the points ledger repository
func (s *PostgresStore) Points() PointsRepository { return s.points }

// Notifications returns the notification repository
func (s *PostgresStore) Notifications() NotificationRepository { return s.notifications }

// WithinTx runs fn inside a database transaction. A nested call reuses the
// surrounding transaction.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if _, inTx := s.q.(*sqlx.Tx); inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.Error("Failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	txStore := &PostgresStore{db: s.db, q: tx, logger: s.logger}
	txStore.init()

	if err := fn(txStore); err != nil {
		return err
	}

	return tx.Commit()
}
