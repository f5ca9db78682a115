package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemIdentifier addresses a single menu item.
type ItemIdentifier struct {
	ID uuid.UUID
}

// CreateItemInput carries every field a new item needs.
type CreateItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	ImageURL    string
}

// UpdateItemInput carries a partial mutation; nil fields are left untouched.
type UpdateItemInput struct {
	ID          uuid.UUID
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	Category    *string
	ImageURL    *string
}

// SubmitReviewInput is a review authored by the calling identity.
type SubmitReviewInput struct {
	ItemID  uuid.UUID
	Rating  int
	Comment string
}
