package model

import (
	"time"
)

// NotificationType classifies a notification
type NotificationType string

// Notification types
const (
	NotifySwapRequest  NotificationType = "swap_request"
	NotifySwapAccepted NotificationType = "swap_accepted"
	NotifySwapRejected NotificationType = "swap_rejected"
	NotifyItemApproved NotificationType = "item_approved"
	NotifyItemRejected NotificationType = "item_rejected"
	NotifyPointsEarned NotificationType = "points_earned"
	NotifyPointsSpent  NotificationType = "points_spent"
	NotifySystem       NotificationType = "system"
)

// IsValid reports whether t is a known notification type
func (t NotificationType) IsValid() bool {
	switch t {
	case NotifySwapRequest, NotifySwapAccepted, NotifySwapRejected,
		NotifyItemApproved, NotifyItemRejected, NotifyPointsEarned,
		NotifyPointsSpent, NotifySystem:
		return true
	}
	return false
}

// Notification represents a user notification
type Notification struct {
	ID                   string           `json:"id" db:"id"`
	UserID               string           `json:"user_id" db:"user_id"`
	Type                 NotificationType `json:"type" db:"type"`
	Title                string           `json:"title" db:"title"`
	Message              string           `json:"message" db:"message"`
	IsRead               bool             `json:"is_read" db:"is_read"`
	RelatedItemID        string           `json:"related_item_id,omitempty" db:"related_item_id"`
	RelatedSwapRequestID string           `json:"related_swap_request_id,omitempty" db:"related_swap_request_id"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`
}

// NotificationCountResponse represents the count of unread notifications
type NotificationCountResponse struct {
	Count int `json:"count"`
}
