package application

import (
	"context"

	"github.com/google/uuid"

	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	menutypes "github.com/Apurer/go-gin-storefront/internal/domains/menu/application/types"
	menudomain "github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
	menuports "github.com/Apurer/go-gin-storefront/internal/domains/menu/ports"
)

// MenuCatalog reads snapshots from an in-process menu service.
type MenuCatalog struct {
	menu menuports.Service
}

// NewMenuCatalog adapts the menu service to the Catalog port.
func NewMenuCatalog(menu menuports.Service) *MenuCatalog {
	return &MenuCatalog{menu: menu}
}

func (c *MenuCatalog) Snapshots(ctx context.Context, ids []uuid.UUID) ([]cartdomain.Snapshot, error) {
	items, err := c.menu.ListItems(ctx, menutypes.ListItemsInput{IDs: ids})
	if err != nil {
		return nil, err
	}
	out := make([]cartdomain.Snapshot, 0, len(items))
	for _, item := range items {
		out = append(out, SnapshotOf(item))
	}
	return out, nil
}

// SnapshotOf captures the cart-relevant fields of a menu item.
func SnapshotOf(item *menudomain.Item) cartdomain.Snapshot {
	return cartdomain.Snapshot{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Stock:    item.Stock,
		ImageURL: item.ImageURL,
	}
}

var _ Catalog = (*MenuCatalog)(nil)
