package model

import (
	"time"
)

// ItemStatus is the lifecycle state of a listing.
// Transitions form a DAG: pending -> available -> swapped, with
// pending/available -> rejected. Swapped and rejected are terminal.
type ItemStatus string

// Item statuses
const (
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusAvailable ItemStatus = "available"
	ItemStatusSwapped   ItemStatus = "swapped"
	ItemStatusRejected  ItemStatus = "rejected"
)

// IsValid reports whether s is a known item status
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusPending, ItemStatusAvailable, ItemStatusSwapped, ItemStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed out of s
func (s ItemStatus) IsTerminal() bool {
	return s == ItemStatusSwapped || s == ItemStatusRejected
}

// CanTransitionTo reports whether the status change s -> next is allowed
func (s ItemStatus) CanTransitionTo(next ItemStatus) bool {
	switch s {
	case ItemStatusPending:
		return next == ItemStatusAvailable || next == ItemStatusRejected
	case ItemStatusAvailable:
		return next == ItemStatusSwapped || next == ItemStatusRejected
	}
	return false
}

// ItemCategory classifies a garment
type ItemCategory string

// Item categories
const (
	CategoryTops        ItemCategory = "tops"
	CategoryBottoms     ItemCategory = "bottoms"
	CategoryDresses     ItemCategory = "dresses"
	CategoryOuterwear   ItemCategory = "outerwear"
	CategoryShoes       ItemCategory = "shoes"
	CategoryAccessories ItemCategory = "accessories"
	CategoryBags        ItemCategory = "bags"
	CategoryJewelry     ItemCategory = "jewelry"
)

// IsValid reports whether c is a known category
func (c ItemCategory) IsValid() bool {
	switch c {
	case CategoryTops, CategoryBottoms, CategoryDresses, CategoryOuterwear,
		CategoryShoes, CategoryAccessories, CategoryBags, CategoryJewelry:
		return true
	}
	return false
}

// ItemType describes the style of a garment
type ItemType string

// Item types
const (
	TypeCasual   ItemType = "casual"
	TypeFormal   ItemType = "formal"
	TypeBusiness ItemType = "business"
	TypeSporty   ItemType = "sporty"
	TypeVintage  ItemType = "vintage"
	TypeLuxury   ItemType = "luxury"
)

// IsValid reports whether t is a known type
func (t ItemType) IsValid() bool {
	switch t {
	case TypeCasual, TypeFormal, TypeBusiness, TypeSporty, TypeVintage, TypeLuxury:
		return true
	}
	return false
}

// ItemSize is a clothing size
type ItemSize string

// Item sizes
const (
	SizeXS      ItemSize = "xs"
	SizeS       ItemSize = "s"
	SizeM       ItemSize = "m"
	SizeL       ItemSize = "l"
	SizeXL      ItemSize = "xl"
	SizeXXL     ItemSize = "xxl"
	SizeOneSize ItemSize = "one_size"
)

// IsValid reports whether s is a known size
func (s ItemSize) IsValid() bool {
	switch s {
	case SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL, SizeOneSize:
		return true
	}
	return false
}

// ItemCondition describes garment wear
type ItemCondition string

// Item conditions
const (
	ConditionNew       ItemCondition = "new"
	ConditionLikeNew   ItemCondition = "like_new"
	ConditionExcellent ItemCondition = "excellent"
	ConditionGood      ItemCondition = "good"
	ConditionFair      ItemCondition = "fair"
	ConditionPoor      ItemCondition = "poor"
)

// IsValid reports whether c is a known condition
func (c ItemCondition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionExcellent,
		ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Item represents a garment listing
type Item struct {
	ID          string        `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Description string        `json:"description" db:"description"`
	Category    ItemCategory  `json:"category" db:"category"`
	Type        ItemType      `json:"type" db:"type"`
	Size        ItemSize      `json:"size" db:"size"`
	Condition   ItemCondition `json:"condition" db:"condition"`
	Tags        []string      `json:"tags" db:"-"`
	Status      ItemStatus    `json:"status" db:"status"`
	Points      int64         `json:"points" db:"points"`
	Location    string        `json:"location,omitempty" db:"location"`
	UserID      string        `json:"user_id" db:"user_id"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`

	// Additional fields for responses
	User   *User       `json:"user,omitempty" db:"-"`
	Images []ItemImage `json:"images,omitempty" db:"-"`
}

// ItemImage represents one image attached to a listing
type ItemImage struct {
	ID        string `json:"id" db:"id"`
	ItemID    string `json:"item_id" db:"item_id"`
	ImageURL  string `json:"image_url" db:"image_url"`
	PublicID  string `json:"public_id" db:"public_id"`
	IsPrimary bool   `json:"is_primary" db:"is_primary"`
	Position  int    `json:"position" db:"position"`
}

// ItemCreate represents data needed to create a listing
type ItemCreate struct {
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description" binding:"required"`
	Category    ItemCategory  `json:"category" binding:"required"`
	Type        ItemType      `json:"type" binding:"required"`
	Size        ItemSize      `json:"size" binding:"required"`
	Condition   ItemCondition `json:"condition" binding:"required"`
	Tags        []string      `json:"tags"`
	Points      int64         `json:"points" binding:"required,min=1"`
	Location    string        `json:"location,omitempty"`
	Images      []ImageUpload `json:"images"`
}

// ImageUpload represents an already-uploaded image descriptor
type ImageUpload struct {
	ImageURL  string `json:"image_url" binding:"required"`
	PublicID  string `json:"public_id"`
	IsPrimary bool   `json:"is_primary"`
}

// ItemUpdate represents editable listing fields
type ItemUpdate struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Category    *ItemCategory  `json:"category,omitempty"`
	Type        *ItemType      `json:"type,omitempty"`
	Size        *ItemSize      `json:"size,omitempty"`
	Condition   *ItemCondition `json:"condition,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Points      *int64         `json:"points,omitempty"`
	Location    *string        `json:"location,omitempty"`
}

// ItemFilter holds search and filter parameters for listings
type ItemFilter struct {
	Query      string
	Categories []ItemCategory
	Types      []ItemType
	Sizes      []ItemSize
	Conditions []ItemCondition
	MinPoints  *int64
	MaxPoints  *int64
	Location   string
	Status     *ItemStatus
	UserID     string
	SortBy     string // created_at, points, title
	SortOrder  string // asc, desc
	Page       int
	Limit      int
}
