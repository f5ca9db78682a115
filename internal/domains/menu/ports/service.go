package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/menu/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/identity"
)

// Service defines the menu use cases exposed to adapters.
type Service interface {
	CreateItem(ctx context.Context, caller *identity.Identity, input types.CreateItemInput) (*domain.Item, error)
	UpdateItem(ctx context.Context, caller *identity.Identity, input types.UpdateItemInput) (*domain.Item, error)
	DeleteItem(ctx context.Context, caller *identity.Identity, input types.ItemIdentifier) error
	GetItem(ctx context.Context, input types.ItemIdentifier) (*domain.Item, error)
	ListItems(ctx context.Context, input types.ListItemsInput) ([]*domain.Item, error)
	SubmitReview(ctx context.Context, caller *identity.Identity, input types.SubmitReviewInput) (*domain.Item, error)
}
