package model

import (
	"time"
)

// PointsTransactionType is the reason a ledger entry was posted
type PointsTransactionType string

// Points transaction types
const (
	PointsEarnedListing   PointsTransactionType = "earned_listing"
	PointsEarnedSwap      PointsTransactionType = "earned_swap"
	PointsSpentRedemption PointsTransactionType = "spent_redemption"
	PointsBonus           PointsTransactionType = "bonus"
	PointsPenalty         PointsTransactionType = "penalty"
)

// IsValid reports whether t is a known transaction type
func (t PointsTransactionType) IsValid() bool {
	switch t {
	case PointsEarnedListing, PointsEarnedSwap, PointsSpentRedemption, PointsBonus, PointsPenalty:
		return true
	}
	return false
}

// PointsTransaction is an immutable ledger entry. A user's balance is the
// sum of their entries' amounts and is never stored separately.
type PointsTransaction struct {
	ID            string                `json:"id" db:"id"`
	UserID        string                `json:"user_id" db:"user_id"`
	Type          PointsTransactionType `json:"type" db:"type"`
	Amount        int64                 `json:"amount" db:"amount"`
	Description   string                `json:"description" db:"description"`
	RelatedItemID string                `json:"related_item_id,omitempty" db:"related_item_id"`
	RelatedSwapID string                `json:"related_swap_id,omitempty" db:"related_swap_id"`
	CreatedAt     time.Time             `json:"created_at" db:"created_at"`
}

// BalanceResponse represents a user's derived point balance
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}
