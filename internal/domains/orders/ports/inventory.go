package ports

import (
	"context"

	"github.com/google/uuid"

	menudomain "github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
)

// Inventory is the slice of the menu store the committer depends on.
// The menu repositories satisfy it directly.
type Inventory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*menudomain.Item, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*menudomain.Item, error)
}
