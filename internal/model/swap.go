package model

import (
	"time"
)

// SwapRequestStatus is the state of a swap proposal.
// pending -> accepted | rejected | cancelled; all three are terminal.
type SwapRequestStatus string

// Swap request statuses
const (
	RequestStatusPending   SwapRequestStatus = "pending"
	RequestStatusAccepted  SwapRequestStatus = "accepted"
	RequestStatusRejected  SwapRequestStatus = "rejected"
	RequestStatusCancelled SwapRequestStatus = "cancelled"
)

// IsValid reports whether s is a known request status
func (s SwapRequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusRejected, RequestStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether s permits no further transition
func (s SwapRequestStatus) IsTerminal() bool {
	return s != RequestStatusPending
}

// SwapRequest represents a proposal by a requester to redeem an item
type SwapRequest struct {
	ID          string            `json:"id" db:"id"`
	Status      SwapRequestStatus `json:"status" db:"status"`
	Message     string            `json:"message,omitempty" db:"message"`
	ItemID      string            `json:"item_id" db:"item_id"`
	RequesterID string            `json:"requester_id" db:"requester_id"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`

	// Additional fields for responses
	Item      *Item `json:"item,omitempty" db:"-"`
	Requester *User `json:"requester,omitempty" db:"-"`
}

// SwapRequestCreate represents data needed to open a swap request
type SwapRequestCreate struct {
	ItemID  string `json:"item_id" binding:"required"`
	Message string `json:"message,omitempty"`
}

// SwapRequestStatusUpdate represents a requested state transition
type SwapRequestStatusUpdate struct {
	Status SwapRequestStatus `json:"status" binding:"required"`
}

// SwapMethod distinguishes a direct trade from a points redemption
type SwapMethod string

// Swap methods
const (
	MethodSwap   SwapMethod = "swap"
	MethodPoints SwapMethod = "points"
)

// IsValid reports whether m is a known swap method
func (m SwapMethod) IsValid() bool {
	return m == MethodSwap || m == MethodPoints
}

// Swap is the immutable record of a completed exchange.
// Exactly one exists per finalized request; it is never mutated.
type Swap struct {
	ID          string     `json:"id" db:"id"`
	Method      SwapMethod `json:"method" db:"method"`
	ItemID      string     `json:"item_id" db:"item_id"`
	RequestID   string     `json:"request_id" db:"request_id"`
	OwnerID     string     `json:"owner_id" db:"owner_id"`
	SwapperID   string     `json:"swapper_id" db:"swapper_id"`
	CompletedAt time.Time  `json:"completed_at" db:"completed_at"`

	// Additional fields for responses
	Item    *Item `json:"item,omitempty" db:"-"`
	Owner   *User `json:"owner,omitempty" db:"-"`
	Swapper *User `json:"swapper,omitempty" db:"-"`
}

// SwapCreate represents the finalize trigger payload
type SwapCreate struct {
	SwapRequestID string     `json:"swap_request_id" binding:"required"`
	Method        SwapMethod `json:"method" binding:"required,swapmethod"`
}
