package types

import "github.com/google/uuid"

// ListItemsInput filters the menu listing.
type ListItemsInput struct {
	Category string
	IDs      []uuid.UUID
}
