package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
)

var ErrNotFound = errors.New("menu item not found")

// ListFilter narrows List results. Zero values mean no restriction.
type ListFilter struct {
	Category domain.Category
	IDs      []uuid.UUID
}

// Repository is the inventory store. AdjustStock and AppendReview are atomic
// per item: the stored record is unchanged whenever they return an error.
// Save writes stock only when it inserts a new item; SetStock overwrites it.
type Repository interface {
	Save(ctx context.Context, item *domain.Item) (*domain.Item, error)
	SetStock(ctx context.Context, id uuid.UUID, stock int) (*domain.Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter) ([]*domain.Item, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.Item, error)
	AppendReview(ctx context.Context, id uuid.UUID, review domain.Review) (*domain.Item, error)
	RecomputeRating(ctx context.Context, id uuid.UUID) (*domain.Item, error)
}
